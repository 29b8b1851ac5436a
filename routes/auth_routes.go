package routes

import (
	"bonded_server/controllers"
	"bonded_server/services"
	"bonded_server/utils"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes sets up signup, login, and identity routes.
func RegisterAuthRoutes(r *mux.Router, authService *services.AuthService) {
	controller := controllers.NewAuthController(authService)

	r.HandleFunc("/signup", controller.Signup).Methods("POST")
	r.HandleFunc("/login", controller.Login).Methods("POST")
	r.HandleFunc("/user-info", utils.RequireAuth(authService, controller.UserInfo)).Methods("GET")
}
