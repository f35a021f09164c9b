package model

import "time"

// LinkStats pairs a link with its full click history and the counts
// derived from it. Clicks is always len(Stats); it is computed by the
// aggregator at read time, never cached.
type LinkStats struct {
	URL           Link         `json:"url"`
	Stats         []ClickEvent `json:"stats"`
	Clicks        int          `json:"clicks"`
	LastClickedAt time.Time    `json:"lastClickedAt"` // created_at when no clicks exist
}

// Dashboard is the per-owner summary returned by GET /api/dashboard/{email}.
// MostClickedLink is absent when the owner has no links.
type Dashboard struct {
	Links           []LinkStats `json:"links"`
	TotalClicks     int         `json:"totalClicks"`
	TotalLinks      int         `json:"totalLinks"`
	MostClickedLink *LinkStats  `json:"mostClickedLink,omitempty"`
}
