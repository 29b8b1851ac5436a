package models

// Goals groups a user's academic and leisure goals
type Goals struct {
	Academic []string `json:"academic,omitempty"`
	Leisure  []string `json:"leisure,omitempty"`
}

// LivingHabits holds the enumerated living-habit preferences used for
// habit-compatibility scoring
type LivingHabits struct {
	SleepSchedule string `json:"sleepSchedule,omitempty"` // early-bird, night-owl, flexible
	Cleanliness   string `json:"cleanliness,omitempty"`   // very-tidy, tidy, relaxed
	Noise         string `json:"noise,omitempty"`         // quiet, moderate, lively
}

// BondPrint is the personality-profile object produced by the Bond Print
// quiz. It is opaque to the scorer except for the trait map, which the
// default secondary-compatibility scorer compares dimension by dimension.
type BondPrint struct {
	Traits  map[string]float64 `json:"traits,omitempty"` // dimension -> 0..1
	Summary string             `json:"summary,omitempty"`
}

// Profile defines the structure for user profiles
type Profile struct {
	ID           string       `json:"id"`
	School       string       `json:"school"`
	Name         string       `json:"name,omitempty"`
	Major        string       `json:"major,omitempty"`
	Year         string       `json:"year,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	PhotoURL     string       `json:"photoUrl,omitempty"`
	Interests    []string     `json:"interests,omitempty"`
	Personality  []string     `json:"personality,omitempty"`
	LookingFor   []string     `json:"lookingFor,omitempty"` // connection-type goals, e.g. "friends"
	Goals        Goals        `json:"goals,omitempty"`
	LivingHabits LivingHabits `json:"livingHabits,omitempty"`
	BondPrint    *BondPrint   `json:"bondPrint,omitempty"`
	CreatedAt    string       `json:"createdAt,omitempty"`
	UpdatedAt    string       `json:"updatedAt,omitempty"`
}
