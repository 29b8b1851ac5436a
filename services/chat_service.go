package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bonded_server/models"
)

// ChatService manages direct-message channels. Chat ids are deterministic
// per unordered pair, so creation is idempotent by construction: two
// concurrent creators write identical records to the same key.
type ChatService struct {
	Store    KVStore
	Profiles *ProfileService
}

// EnsureChat returns the chat for the pair, creating it if absent, and
// makes sure the chat id is on both users' chat lists.
func (s *ChatService) EnsureChat(ctx context.Context, userA, userB string) (*models.Chat, error) {
	if userA == "" || userB == "" || userA == userB {
		return nil, fmt.Errorf("%w: a chat needs two distinct participants", ErrValidation)
	}

	chatID := models.PairChatID(userA, userB)
	chat, err := s.getChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if chat == nil {
		lo, hi := models.SortedPair(userA, userB)
		chat = &models.Chat{
			ChatID:       chatID,
			Participants: []string{lo, hi},
			CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		value, err := json.Marshal(chat)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal chat %s: %w", chatID, err)
		}
		if err := s.Store.Set(ctx, models.ChatKey(chatID), value); err != nil {
			return nil, err
		}
		log.Printf("💬 Chat created: %s", chatID)
	}

	if err := s.Profiles.AppendUnique(ctx, models.ChatsKey(userA), chatID); err != nil {
		return nil, err
	}
	if err := s.Profiles.AppendUnique(ctx, models.ChatsKey(userB), chatID); err != nil {
		return nil, err
	}
	return chat, nil
}

// ChatsForUser lists the caller's chats with the other participant's
// profile and the latest message. Chats whose record or counterpart
// profile went missing are skipped rather than failing the list.
func (s *ChatService) ChatsForUser(ctx context.Context, userID string) ([]models.ChatPreview, error) {
	chatIDs, err := s.Profiles.StringList(ctx, models.ChatsKey(userID))
	if err != nil {
		return nil, err
	}

	previews := make([]models.ChatPreview, 0, len(chatIDs))
	for _, chatID := range chatIDs {
		chat, err := s.getChat(ctx, chatID)
		if err != nil || chat == nil {
			continue
		}

		otherID := ""
		for _, participant := range chat.Participants {
			if participant != userID {
				otherID = participant
			}
		}
		other, err := s.Profiles.GetProfile(ctx, otherID)
		if err != nil || other == nil {
			continue
		}

		messages, err := s.readMessages(ctx, chatID)
		if err != nil {
			continue
		}
		preview := models.ChatPreview{ChatID: chatID, OtherUser: other}
		if len(messages) > 0 {
			last := messages[len(messages)-1]
			preview.LastMessage = &last
		}
		previews = append(previews, preview)
	}
	return previews, nil
}

// Messages returns the full ordered message history of a chat. Only a
// participant may read it.
func (s *ChatService) Messages(ctx context.Context, callerID, chatID string) ([]models.Message, error) {
	chat, err := s.getChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("%w: chat %s", ErrNotFound, chatID)
	}
	if !contains(chat.Participants, callerID) {
		return nil, fmt.Errorf("%w: not a participant of chat %s", ErrForbidden, chatID)
	}
	return s.readMessages(ctx, chatID)
}

// SendMessage appends a message to the chat's ordered list. Only a
// participant may send.
func (s *ChatService) SendMessage(ctx context.Context, callerID, chatID, content string) (*models.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrValidation)
	}

	chat, err := s.getChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("%w: chat %s", ErrNotFound, chatID)
	}
	if !contains(chat.Participants, callerID) {
		return nil, fmt.Errorf("%w: not a participant of chat %s", ErrForbidden, chatID)
	}

	now := time.Now()
	message := models.Message{
		MessageID: models.MessageID(chatID, now),
		ChatID:    chatID,
		SenderID:  callerID,
		Content:   content,
		CreatedAt: now.UTC().Format(time.RFC3339),
	}

	messages, err := s.readMessages(ctx, chatID)
	if err != nil {
		return nil, err
	}
	messages = append(messages, message)

	value, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal messages for chat %s: %w", chatID, err)
	}
	if err := s.Store.Set(ctx, models.ChatMessagesKey(chatID), value); err != nil {
		return nil, err
	}

	log.Printf("📩 Message stored: %s in %s", message.MessageID, chatID)
	return &message, nil
}

func (s *ChatService) getChat(ctx context.Context, chatID string) (*models.Chat, error) {
	value, err := s.Store.Get(ctx, models.ChatKey(chatID))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}

	var chat models.Chat
	if err := json.Unmarshal(value, &chat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat %s: %w", chatID, err)
	}
	return &chat, nil
}

// readMessages treats an absent or corrupted message list as empty; the
// next send rewrites the key with a valid list.
func (s *ChatService) readMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	value, err := s.Store.Get(ctx, models.ChatMessagesKey(chatID))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return []models.Message{}, nil
	}

	var messages []models.Message
	if err := json.Unmarshal(value, &messages); err != nil {
		log.Printf("⚠️ Corrupted message list for chat %s, treating as empty: %v", chatID, err)
		return []models.Message{}, nil
	}
	return messages, nil
}
