package controllers

import (
	"encoding/json"
	"net/http"

	"bonded_server/services"
	"bonded_server/utils"

	socketio "github.com/googollee/go-socket.io"
	"github.com/gorilla/mux"
)

// ChatController handles chat provisioning and messaging. When a socket
// server is attached, sent messages are also broadcast to the chat's room.
type ChatController struct {
	ChatService *services.ChatService
	Socket      *socketio.Server
}

func NewChatController(chatService *services.ChatService, socket *socketio.Server) *ChatController {
	return &ChatController{ChatService: chatService, Socket: socket}
}

// StartChat gets or creates the chat between the caller and another user.
func (c *ChatController) StartChat(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	chat, err := c.ChatService.EnsureChat(r.Context(), utils.CallerID(r), request.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, chat)
}

// Chats lists the caller's chats with previews.
func (c *ChatController) Chats(w http.ResponseWriter, r *http.Request) {
	previews, err := c.ChatService.ChatsForUser(r.Context(), utils.CallerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, previews)
}

// Messages returns a chat's full ordered message history.
func (c *ChatController) Messages(w http.ResponseWriter, r *http.Request) {
	messages, err := c.ChatService.Messages(r.Context(), utils.CallerID(r), mux.Vars(r)["chatId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, messages)
}

// SendMessage appends a message and broadcasts it to the chat room.
func (c *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	var request struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	message, err := c.ChatService.SendMessage(r.Context(), utils.CallerID(r), chatID, request.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if c.Socket != nil {
		c.Socket.BroadcastToRoom("/", chatID, "newMessage", message)
	}
	utils.JSON(w, http.StatusOK, message)
}
