package model

import "time"

// User represents a registered account, keyed by email. Users are created
// idempotently on the first sign-in callback; only the display name is
// ever updated afterwards.
type User struct {
	ID        string    `json:"id"` // UUID v4
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
