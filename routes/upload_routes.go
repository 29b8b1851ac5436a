package routes

import (
	"bonded_server/controllers"
	"bonded_server/services"
	"bonded_server/utils"

	"github.com/gorilla/mux"
)

// RegisterUploadRoutes sets up the photo-upload route.
func RegisterUploadRoutes(r *mux.Router, photoService *services.PhotoService, authService *services.AuthService) {
	controller := controllers.NewUploadController(photoService)

	r.HandleFunc("/upload-photo", utils.RequireAuth(authService, controller.UploadPhoto)).Methods("POST")
}
