package routes

import (
	"bonded_server/controllers"
	"bonded_server/services"
	"bonded_server/utils"

	socketio "github.com/googollee/go-socket.io"
	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up chat provisioning and messaging routes.
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, socket *socketio.Server, authService *services.AuthService) {
	controller := controllers.NewChatController(chatService, socket)

	r.HandleFunc("/chat/start", utils.RequireAuth(authService, controller.StartChat)).Methods("POST")
	r.HandleFunc("/chats", utils.RequireAuth(authService, controller.Chats)).Methods("GET")
	r.HandleFunc("/chat/{chatId}/messages", utils.RequireAuth(authService, controller.Messages)).Methods("GET")
	r.HandleFunc("/chat/{chatId}/message", utils.RequireAuth(authService, controller.SendMessage)).Methods("POST")
}
