package models

// Soft intro statuses
const (
	IntroStatusPending  = "pending"
	IntroStatusAccepted = "accepted"
	IntroStatusDenied   = "denied"
)

// Connection-intent reasons for a soft intro
const (
	IntroReasonRoommate        = "roommate"
	IntroReasonFriends         = "friends"
	IntroReasonStudyPartner    = "study-partner"
	IntroReasonGoingOut        = "going-out"
	IntroReasonCollaborate     = "collaborate"
	IntroReasonNetwork         = "network"
	IntroReasonEventBuddy      = "event-buddy"
	IntroReasonWorkoutPartner  = "workout-partner"
	IntroReasonDiningCompanion = "dining-companion"
)

var introReasons = map[string]bool{
	IntroReasonRoommate:        true,
	IntroReasonFriends:         true,
	IntroReasonStudyPartner:    true,
	IntroReasonGoingOut:        true,
	IntroReasonCollaborate:     true,
	IntroReasonNetwork:         true,
	IntroReasonEventBuddy:      true,
	IntroReasonWorkoutPartner:  true,
	IntroReasonDiningCompanion: true,
}

// ValidIntroReason reports whether reason is one of the supported
// connection intents.
func ValidIntroReason(reason string) bool {
	return introReasons[reason]
}
