package handler

import (
	"context"
	"net/http"
	"time"

	"shorter/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// DashboardHandler serves per-owner aggregated statistics.
type DashboardHandler struct {
	dashboards *store.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboards *store.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// GetDashboard handles GET /api/dashboard/{email}. An owner with no links
// gets an empty summary, not an error.
func (dh *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	// Aggregation touches one Redis key per owned link, so it gets a wider
	// timeout than single-key operations
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	email := mux.Vars(r)["email"]

	dashboard, err := dh.dashboards.Summarize(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to build dashboard")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to build dashboard")
		return
	}

	SendJSONSuccess(w, http.StatusOK, dashboard)
}
