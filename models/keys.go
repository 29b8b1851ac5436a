package models

import (
	"fmt"
	"time"
)

// Key scheme for the key-value store. String keys, JSON values; a
// convention shared by every service, not a wire protocol.
//
//	user:<id>                          -> Profile
//	school:<name>:users                -> []string (user ids, deduplicated)
//	user:<id>:connections              -> []string (user ids)
//	user:<id>:soft-intros:incoming     -> []string (intro ids)
//	user:<id>:soft-intros:outgoing     -> []string (intro ids)
//	user:<id>:chats                    -> []string (chat ids)
//	chat:<chatId>                      -> Chat
//	chat:<chatId>:messages             -> []Message
//	<introId>                          -> SoftIntro
//	auth:user:<id>, auth:email:<email> -> Account

func UserKey(userID string) string {
	return "user:" + userID
}

func SchoolUsersKey(school string) string {
	return "school:" + school + ":users"
}

func ConnectionsKey(userID string) string {
	return "user:" + userID + ":connections"
}

func IncomingIntrosKey(userID string) string {
	return "user:" + userID + ":soft-intros:incoming"
}

func OutgoingIntrosKey(userID string) string {
	return "user:" + userID + ":soft-intros:outgoing"
}

func ChatsKey(userID string) string {
	return "user:" + userID + ":chats"
}

func ChatKey(chatID string) string {
	return "chat:" + chatID
}

func ChatMessagesKey(chatID string) string {
	return "chat:" + chatID + ":messages"
}

func AccountKey(userID string) string {
	return "auth:user:" + userID
}

func AccountEmailKey(email string) string {
	return "auth:email:" + email
}

// SortedPair returns the two ids in lexicographic order.
func SortedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// PairChatID derives the deterministic chat id for an unordered pair of
// users: at most one chat can ever exist for the pair.
func PairChatID(a, b string) string {
	lo, hi := SortedPair(a, b)
	return "chat_" + lo + "_" + hi
}

// IntroID builds the composite soft-intro id from the participants and the
// creation time.
func IntroID(fromUserID, toUserID string, at time.Time) string {
	return fmt.Sprintf("intro_%s_%s_%d", fromUserID, toUserID, at.UnixMilli())
}

// MessageID builds the composite message id from the chat and send time.
func MessageID(chatID string, at time.Time) string {
	return fmt.Sprintf("msg_%s_%d", chatID, at.UnixNano())
}
