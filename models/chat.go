package models

// Chat is a two-participant messaging channel. The chat id is derived from
// the sorted participant ids, so an unordered pair maps to exactly one chat.
type Chat struct {
	ChatID       string   `json:"chatId"`
	Participants []string `json:"participants"` // always exactly 2, sorted
	CreatedAt    string   `json:"createdAt"`
}

// Message belongs to exactly one chat; appended, never mutated.
type Message struct {
	MessageID string `json:"messageId"`
	ChatID    string `json:"chatId"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// ChatPreview is the chat-list entry: the other participant plus the most
// recent message, if any.
type ChatPreview struct {
	ChatID      string   `json:"chatId"`
	OtherUser   *Profile `json:"otherUser,omitempty"`
	LastMessage *Message `json:"lastMessage,omitempty"`
}
