package routes

import (
	"bonded_server/controllers"
	"bonded_server/services"
	"bonded_server/utils"

	"github.com/gorilla/mux"
)

// RegisterIntroRoutes sets up the soft-intro workflow and connections.
func RegisterIntroRoutes(r *mux.Router, introService *services.IntroService, analysisService *services.AnalysisService, matchService *services.MatchService, profileService *services.ProfileService, authService *services.AuthService) {
	controller := controllers.NewIntroController(introService, analysisService, matchService, profileService)

	r.HandleFunc("/soft-intro/generate-ai-analysis", utils.RequireAuth(authService, controller.GenerateAnalysis)).Methods("POST")
	r.HandleFunc("/soft-intro", utils.RequireAuth(authService, controller.SendIntro)).Methods("POST")
	r.HandleFunc("/soft-intros/incoming", utils.RequireAuth(authService, controller.IncomingIntros)).Methods("GET")
	r.HandleFunc("/soft-intros/outgoing", utils.RequireAuth(authService, controller.OutgoingIntros)).Methods("GET")
	r.HandleFunc("/soft-intro/{id}/accept", utils.RequireAuth(authService, controller.AcceptIntro)).Methods("POST")
	r.HandleFunc("/soft-intro/{id}/deny", utils.RequireAuth(authService, controller.DenyIntro)).Methods("POST")
	r.HandleFunc("/connections", utils.RequireAuth(authService, controller.Connections)).Methods("GET")
}
