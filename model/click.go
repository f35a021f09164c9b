package model

import "time"

// ClickEvent is an immutable record of one resolution of a short code.
// Events are append-only and survive deletion of the link they reference.
type ClickEvent struct {
	ID        string    `json:"id"` // UUID v4
	ShortURL  string    `json:"short_url"`
	ClickedAt time.Time `json:"clicked_at"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
}
