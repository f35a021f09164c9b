package store

import (
	"context"
	"sort"

	"shorter/model"
)

// DashboardService computes per-owner summaries from the link store and the
// click event log. Click counts are derived from the event log at read time;
// there is no cached counter to drift out of sync.
type DashboardService struct {
	links  *LinkStore
	clicks *ClickStore
}

func NewDashboardService(links *LinkStore, clicks *ClickStore) *DashboardService {
	return &DashboardService{links: links, clicks: clicks}
}

// Summarize builds the dashboard for one owner. An owner with zero links
// gets an empty result, not an error, and MostClickedLink stays absent.
// Ties for most clicks go to the earliest-created link.
func (s *DashboardService) Summarize(ctx context.Context, email string) (*model.Dashboard, error) {
	links, err := s.links.ListByOwner(ctx, email)
	if err != nil {
		return nil, err
	}

	// ListByOwner gives no ordering guarantee; sort by creation time so the
	// output is deterministic and tie-breaking below picks the oldest link.
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.Before(links[j].CreatedAt)
	})

	dashboard := &model.Dashboard{
		Links: make([]model.LinkStats, 0, len(links)),
	}

	for _, link := range links {
		events, err := s.clicks.ListByCode(ctx, link.ShortURL)
		if err != nil {
			return nil, err
		}

		entry := model.LinkStats{
			URL:           link,
			Stats:         events,
			Clicks:        len(events),
			LastClickedAt: link.CreatedAt,
		}
		for _, event := range events {
			if event.ClickedAt.After(entry.LastClickedAt) {
				entry.LastClickedAt = event.ClickedAt
			}
		}

		dashboard.Links = append(dashboard.Links, entry)
		dashboard.TotalClicks += entry.Clicks
	}
	dashboard.TotalLinks = len(dashboard.Links)

	var best *model.LinkStats
	for i := range dashboard.Links {
		if best == nil || dashboard.Links[i].Clicks > best.Clicks {
			best = &dashboard.Links[i]
		}
	}
	dashboard.MostClickedLink = best

	return dashboard, nil
}
