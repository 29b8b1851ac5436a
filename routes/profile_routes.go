package routes

import (
	"bonded_server/controllers"
	"bonded_server/services"
	"bonded_server/utils"

	"github.com/gorilla/mux"
)

// RegisterProfileRoutes sets up routes for profile operations.
func RegisterProfileRoutes(r *mux.Router, profileService *services.ProfileService, authService *services.AuthService) {
	controller := controllers.NewProfileController(profileService)

	r.HandleFunc("/profile", utils.RequireAuth(authService, controller.UpsertProfile)).Methods("POST")
	r.HandleFunc("/profile/{userId}", utils.RequireAuth(authService, controller.GetProfile)).Methods("GET")
	r.HandleFunc("/profiles", utils.RequireAuth(authService, controller.SchoolProfiles)).Methods("GET")
}
