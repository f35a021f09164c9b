package store

import (
	"context"
	"testing"

	"shorter/config"
)

func newDashboardFixture(t *testing.T) (*LinkStore, *ClickStore, *DashboardService, func()) {
	client, s := setupTestRedis(t)
	links := NewLinkStore(client, config.ShortenerConfig{})
	clicks := NewClickStore(client)
	dashboards := NewDashboardService(links, clicks)
	cleanup := func() {
		client.Close()
		s.Close()
	}
	return links, clicks, dashboards, cleanup
}

func TestDashboard_EmptyOwner(t *testing.T) {
	_, _, dashboards, cleanup := newDashboardFixture(t)
	defer cleanup()

	dashboard, err := dashboards.Summarize(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(dashboard.Links) != 0 || dashboard.TotalLinks != 0 || dashboard.TotalClicks != 0 {
		t.Errorf("Summarize() for empty owner = %+v, want zero totals", dashboard)
	}
	if dashboard.MostClickedLink != nil {
		t.Error("MostClickedLink must be absent for an owner with no links")
	}
}

func TestDashboard_SingleLinkThreeClicks(t *testing.T) {
	links, clicks, dashboards, cleanup := newDashboardFixture(t)
	defer cleanup()

	ctx := context.Background()
	link, err := links.Create(ctx, "https://example.com/a", "owner@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := clicks.Record(ctx, link.ShortURL, "203.0.113.7", "agent"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	dashboard, err := dashboards.Summarize(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if dashboard.TotalLinks != 1 {
		t.Errorf("TotalLinks = %d, want 1", dashboard.TotalLinks)
	}
	if dashboard.TotalClicks != 3 {
		t.Errorf("TotalClicks = %d, want 3", dashboard.TotalClicks)
	}
	if dashboard.MostClickedLink == nil {
		t.Fatal("MostClickedLink is absent")
	}
	if dashboard.MostClickedLink.Clicks != 3 {
		t.Errorf("MostClickedLink.Clicks = %d, want 3", dashboard.MostClickedLink.Clicks)
	}
	if len(dashboard.Links[0].Stats) != 3 {
		t.Errorf("Stats length = %d, want 3", len(dashboard.Links[0].Stats))
	}
	if dashboard.Links[0].LastClickedAt.Before(link.CreatedAt) {
		t.Error("LastClickedAt predates link creation")
	}
}

func TestDashboard_MostClickedFlips(t *testing.T) {
	links, clicks, dashboards, cleanup := newDashboardFixture(t)
	defer cleanup()

	ctx := context.Background()
	first, err := links.Create(ctx, "https://example.com/five", "owner@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := links.Create(ctx, "https://example.com/two", "owner@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	record := func(code string, n int) {
		t.Helper()
		for i := 0; i < n; i++ {
			if _, err := clicks.Record(ctx, code, "203.0.113.7", "agent"); err != nil {
				t.Fatalf("Record() error = %v", err)
			}
		}
	}
	record(first.ShortURL, 5)
	record(second.ShortURL, 2)

	dashboard, err := dashboards.Summarize(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if dashboard.TotalClicks != 7 {
		t.Errorf("TotalClicks = %d, want 7", dashboard.TotalClicks)
	}
	if dashboard.MostClickedLink.URL.ShortURL != first.ShortURL {
		t.Errorf("MostClickedLink = %s, want %s", dashboard.MostClickedLink.URL.ShortURL, first.ShortURL)
	}

	// Push the second link past the first; the winner flips
	record(second.ShortURL, 4)

	dashboard, err = dashboards.Summarize(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if dashboard.MostClickedLink.URL.ShortURL != second.ShortURL {
		t.Errorf("MostClickedLink = %s, want %s after flip", dashboard.MostClickedLink.URL.ShortURL, second.ShortURL)
	}
	if dashboard.MostClickedLink.Clicks != 6 {
		t.Errorf("MostClickedLink.Clicks = %d, want 6", dashboard.MostClickedLink.Clicks)
	}
}

func TestDashboard_TieGoesToEarliestLink(t *testing.T) {
	links, clicks, dashboards, cleanup := newDashboardFixture(t)
	defer cleanup()

	ctx := context.Background()
	first, err := links.Create(ctx, "https://example.com/old", "owner@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := links.Create(ctx, "https://example.com/new", "owner@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !first.CreatedAt.Before(second.CreatedAt) {
		t.Skip("links created within the same timestamp tick")
	}

	for _, code := range []string{first.ShortURL, second.ShortURL} {
		for i := 0; i < 2; i++ {
			if _, err := clicks.Record(ctx, code, "203.0.113.7", "agent"); err != nil {
				t.Fatalf("Record() error = %v", err)
			}
		}
	}

	dashboard, err := dashboards.Summarize(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if dashboard.MostClickedLink.URL.ShortURL != first.ShortURL {
		t.Errorf("Tie broken to %s, want the earlier link %s", dashboard.MostClickedLink.URL.ShortURL, first.ShortURL)
	}
}

func TestDashboard_LastClickedFallsBackToCreatedAt(t *testing.T) {
	links, _, dashboards, cleanup := newDashboardFixture(t)
	defer cleanup()

	ctx := context.Background()
	link, err := links.Create(ctx, "https://example.com/quiet", "owner@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dashboard, err := dashboards.Summarize(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(dashboard.Links) != 1 {
		t.Fatalf("Links length = %d, want 1", len(dashboard.Links))
	}
	entry := dashboard.Links[0]
	if entry.Clicks != 0 {
		t.Errorf("Clicks = %d, want 0", entry.Clicks)
	}
	if !entry.LastClickedAt.Equal(link.CreatedAt) {
		t.Errorf("LastClickedAt = %v, want created_at %v", entry.LastClickedAt, link.CreatedAt)
	}
}

func TestDashboard_LinksSortedByCreation(t *testing.T) {
	links, _, dashboards, cleanup := newDashboardFixture(t)
	defer cleanup()

	ctx := context.Background()
	urls := []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}
	for _, url := range urls {
		if _, err := links.Create(ctx, url, "owner@example.com"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	dashboard, err := dashboards.Summarize(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	for i := 1; i < len(dashboard.Links); i++ {
		if dashboard.Links[i].URL.CreatedAt.Before(dashboard.Links[i-1].URL.CreatedAt) {
			t.Error("Dashboard links are not sorted by creation time")
		}
	}
}
