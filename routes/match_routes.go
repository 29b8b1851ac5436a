package routes

import (
	"bonded_server/controllers"
	"bonded_server/services"
	"bonded_server/utils"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up discovery and compatibility routes.
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, authService *services.AuthService) {
	controller := controllers.NewMatchController(matchService)

	r.HandleFunc("/discover/smart-matches", utils.RequireAuth(authService, controller.SmartMatches)).Methods("GET")
	r.HandleFunc("/matches", utils.RequireAuth(authService, controller.TopMatches)).Methods("GET")
	r.HandleFunc("/compatibility/{targetUserId}", utils.RequireAuth(authService, controller.Compatibility)).Methods("GET")
}
