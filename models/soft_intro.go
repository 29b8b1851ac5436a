package models

// IntroAnalysis is the rationale attached to a soft intro: a short
// natural-language pitch, a 0-100 score, and the shared attributes that
// back it up.
type IntroAnalysis struct {
	Analysis   string   `json:"analysis"`
	Score      int      `json:"score"`
	Highlights []string `json:"highlights"`
}

// SoftIntro represents a proposed introduction from one user to another.
// Status only ever moves pending -> accepted or pending -> denied.
type SoftIntro struct {
	ID         string         `json:"id"`
	FromUserID string         `json:"fromUserId"`
	ToUserID   string         `json:"toUserId"`
	Reason     string         `json:"reason"`
	Analysis   *IntroAnalysis `json:"analysis,omitempty"`
	Status     string         `json:"status"` // pending, accepted, denied
	CreatedAt  string         `json:"createdAt"`
	AcceptedAt string         `json:"acceptedAt,omitempty"`
	DeniedAt   string         `json:"deniedAt,omitempty"`
}

// IntroWithProfile combines a soft intro with the counterpart's profile
// snapshot for list responses.
type IntroWithProfile struct {
	SoftIntro
	Profile *Profile `json:"profile,omitempty"`
}
