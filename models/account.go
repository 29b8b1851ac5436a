package models

// Account represents an authenticated user. Stored under the auth:* keys,
// never returned to clients with the password hash attached.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	School       string `json:"school,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
	CreatedAt    string `json:"createdAt"`
}
