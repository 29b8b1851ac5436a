package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes the Socket.IO server used for live chat
// events: clients join a room per chat id and receive newMessage
// broadcasts.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, data map[string]string) {
		chatID := data["chatId"]
		if chatID == "" {
			log.Println("❌ Invalid chatId in join request")
			return
		}
		log.Printf("👥 Socket %s joined chat %s\n", c.ID(), chatID)
		c.Join(chatID)
	})

	server.OnEvent("/", "sendMessage", func(c socketio.Conn, message map[string]interface{}) {
		chatID, _ := message["chatId"].(string)
		if chatID == "" {
			return
		}
		server.BroadcastToRoom("/", chatID, "newMessage", message)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}
