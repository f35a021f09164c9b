package model

import "time"

// Link represents a shortened URL. Links are immutable once created;
// the short code never changes and click counts are derived from the
// click event log at read time, never stored on the link itself.
type Link struct {
	ID        string    `json:"id"`              // UUID v4, opaque and stable
	LongURL   string    `json:"long_url"`        // validated absolute http(s) URL
	ShortURL  string    `json:"short_url"`       // the short code (unique)
	Email     string    `json:"email,omitempty"` // owner email, empty for anonymous links
	CreatedAt time.Time `json:"created_at"`
}
