package services_test

import (
	"context"
	"testing"

	"bonded_server/models"
	"bonded_server/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureChatIsIdempotentPerPair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, profileFixture("alice"))
	env.seedProfile(t, profileFixture("bob"))

	first, err := env.chats.EnsureChat(ctx, "alice", "bob")
	require.NoError(t, err)

	// Argument order never matters: same id, same record.
	second, err := env.chats.EnsureChat(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ChatID, second.ChatID)
	assert.Equal(t, []string{"alice", "bob"}, second.Participants)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	// Neither chat list picked up a duplicate entry.
	for _, user := range []string{"alice", "bob"} {
		previews, err := env.chats.ChatsForUser(ctx, user)
		require.NoError(t, err)
		assert.Len(t, previews, 1)
	}
}

func TestEnsureChatValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.chats.EnsureChat(ctx, "alice", "alice")
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = env.chats.EnsureChat(ctx, "alice", "")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestSendMessageAndOrderedHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, profileFixture("alice"))
	env.seedProfile(t, profileFixture("bob"))

	chat, err := env.chats.EnsureChat(ctx, "alice", "bob")
	require.NoError(t, err)

	for _, content := range []string{"hey", "how's the semester going?", "good, you?"} {
		_, err := env.chats.SendMessage(ctx, "alice", chat.ChatID, content)
		require.NoError(t, err)
	}

	messages, err := env.chats.Messages(ctx, "bob", chat.ChatID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "hey", messages[0].Content)
	assert.Equal(t, "good, you?", messages[2].Content)
	for _, message := range messages {
		assert.Equal(t, chat.ChatID, message.ChatID)
		assert.Equal(t, "alice", message.SenderID)
		assert.NotEmpty(t, message.MessageID)
		assert.NotEmpty(t, message.CreatedAt)
	}
}

func TestChatAccessIsParticipantOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, profileFixture("alice"))
	env.seedProfile(t, profileFixture("bob"))

	chat, err := env.chats.EnsureChat(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = env.chats.SendMessage(ctx, "mallory", chat.ChatID, "hi")
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = env.chats.Messages(ctx, "mallory", chat.ChatID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = env.chats.SendMessage(ctx, "alice", chat.ChatID, "")
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = env.chats.SendMessage(ctx, "alice", "chat_nobody_nowhere", "hi")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestChatsForUserPreviews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, profileFixture("alice"))
	env.seedProfile(t, profileFixture("bob"))
	env.seedProfile(t, profileFixture("carol"))

	withBob, err := env.chats.EnsureChat(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = env.chats.EnsureChat(ctx, "alice", "carol")
	require.NoError(t, err)

	sent, err := env.chats.SendMessage(ctx, "bob", withBob.ChatID, "see you at the library")
	require.NoError(t, err)

	previews, err := env.chats.ChatsForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, previews, 2)

	byChat := make(map[string]models.ChatPreview, len(previews))
	for _, preview := range previews {
		byChat[preview.ChatID] = preview
	}

	bobPreview := byChat[withBob.ChatID]
	require.NotNil(t, bobPreview.OtherUser)
	assert.Equal(t, "bob", bobPreview.OtherUser.ID)
	require.NotNil(t, bobPreview.LastMessage)
	assert.Equal(t, sent.MessageID, bobPreview.LastMessage.MessageID)

	carolPreview := byChat[models.PairChatID("alice", "carol")]
	assert.Nil(t, carolPreview.LastMessage, "a fresh chat has no last message")
}

func TestCorruptedMessageListReadsAsEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, profileFixture("alice"))
	env.seedProfile(t, profileFixture("bob"))

	chat, err := env.chats.EnsureChat(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, env.store.Set(ctx, models.ChatMessagesKey(chat.ChatID), []byte(`"oops"`)))

	messages, err := env.chats.Messages(ctx, "alice", chat.ChatID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	// The next send self-heals the key.
	_, err = env.chats.SendMessage(ctx, "alice", chat.ChatID, "fresh start")
	require.NoError(t, err)
	messages, err = env.chats.Messages(ctx, "alice", chat.ChatID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "fresh start", messages[0].Content)
}
