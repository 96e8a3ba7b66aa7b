package domain

import "time"

// User is a registered shopper account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
