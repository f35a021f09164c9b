package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"shorter/cache"
	"shorter/config"
	"shorter/model"
	"shorter/store"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// URLHandler handles link creation, resolution, click recording, and
// deletion.
type URLHandler struct {
	redis   *redis.Client
	links   *store.LinkStore
	clicks  *store.ClickStore
	cache   *cache.Cache
	config  config.Config
	baseURL string
}

// NewURLHandler creates a new URL handler
func NewURLHandler(rdb *redis.Client, links *store.LinkStore, clicks *store.ClickStore, cacheClient *cache.Cache, cfg config.Config) *URLHandler {
	// Use configured base_url if provided, otherwise construct from scheme, IP, and port
	baseURL := cfg.WebServer.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s://%s:%s", cfg.WebServer.Scheme, cfg.WebServer.IP, cfg.WebServer.Port)
	}
	return &URLHandler{
		redis:   rdb,
		links:   links,
		clicks:  clicks,
		cache:   cacheClient,
		config:  cfg,
		baseURL: baseURL,
	}
}

func (h *URLHandler) opContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
}

// clientIP strips the port from RemoteAddr when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CreateShortURL handles POST /api/url. An empty email creates an
// anonymous link that no dashboard will ever list.
func (h *URLHandler) CreateShortURL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	var input struct {
		LongURL string `json:"long_url"`
		Email   string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	link, err := h.links.Create(ctx, input.LongURL, input.Email)
	if err != nil {
		if err == store.ErrCodeExhausted {
			// Collision storm, worth a capacity investigation
			log.Error().Err(err).Msg("Short code space exhausted")
		} else {
			log.Warn().Err(err).Str("long_url", input.LongURL).Msg("Failed to create link")
		}
		SendJSONError(w, statusFromError(err), err, "")
		return
	}

	log.Info().
		Str("short_url", link.ShortURL).
		Str("long_url", link.LongURL).
		Str("email", link.Email).
		Msg("Short URL created")

	SendJSONSuccess(w, http.StatusCreated, link)
}

// GetLongURL handles GET /api/url/{shortURL}. Resolution only; no click
// is recorded here, the client follows up on the click endpoint.
func (h *URLHandler) GetLongURL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	code := mux.Vars(r)["shortURL"]

	link, err := h.resolve(ctx, code)
	if err != nil {
		if err == store.ErrNotFound {
			log.Warn().Str("short_url", code).Msg("URL not found")
			SendJSONError(w, http.StatusNotFound, errors.New("URL not found"), "")
			return
		}
		log.Error().Err(err).Str("short_url", code).Msg("Failed to resolve URL")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to retrieve URL")
		return
	}

	SendJSONSuccess(w, http.StatusOK, link)
}

// RecordClick handles POST /api/url/{shortURL}/click. The code is resolved
// first; clicks are never recorded for unknown codes.
func (h *URLHandler) RecordClick(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	code := mux.Vars(r)["shortURL"]

	if _, err := h.clicks.Record(ctx, code, clientIP(r), r.UserAgent()); err != nil {
		if err == store.ErrNotFound {
			log.Warn().Str("short_url", code).Msg("Click on unknown code rejected")
			SendJSONError(w, http.StatusNotFound, errors.New("URL not found"), "")
			return
		}
		log.Error().Err(err).Str("short_url", code).Msg("Failed to record click")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to record click")
		return
	}

	SendJSONSuccess(w, http.StatusOK, map[string]string{"status": "success"})
}

// GetClickStats handles GET /api/url/{shortURL}/stats and returns the raw
// click history for one code.
func (h *URLHandler) GetClickStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	code := mux.Vars(r)["shortURL"]

	if _, err := h.resolve(ctx, code); err != nil {
		SendJSONError(w, statusFromError(err), err, "")
		return
	}

	events, err := h.clicks.ListByCode(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("short_url", code).Msg("Failed to retrieve click stats")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to retrieve click stats")
		return
	}

	SendJSONSuccess(w, http.StatusOK, events)
}

// GetURLsByOwner handles GET /api/url/getUrlsByUserId/{email}.
func (h *URLHandler) GetURLsByOwner(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	email := mux.Vars(r)["email"]

	links, err := h.links.ListByOwner(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to list links")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to list links")
		return
	}

	SendJSONSuccess(w, http.StatusOK, links)
}

// DeleteURL handles DELETE /api/url/{id}. Click events recorded for the
// link are retained.
func (h *URLHandler) DeleteURL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	id := mux.Vars(r)["id"]

	// Invalidate the cache entry before the mapping disappears
	if link, err := h.links.GetByID(ctx, id); err == nil {
		h.cache.Delete(link.ShortURL)
	}

	if err := h.links.Delete(ctx, id); err != nil {
		if err == store.ErrNotFound {
			SendJSONError(w, http.StatusNotFound, errors.New("link not found"), "")
			return
		}
		log.Error().Err(err).Str("id", id).Msg("Failed to delete link")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to delete link")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Redirect handles GET /{shortURL}: resolve, record the click, then send
// the browser on. Resolution comes first so unknown codes never produce an
// event; a recording failure is logged and the redirect still served.
func (h *URLHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	code := mux.Vars(r)["shortURL"]

	link, err := h.resolve(ctx, code)
	if err != nil {
		if err == store.ErrNotFound {
			log.Warn().Str("short_url", code).Msg("URL not found")
			SendJSONError(w, http.StatusNotFound, errors.New("URL not found"), "")
			return
		}
		log.Error().Err(err).Str("short_url", code).Msg("Failed to resolve URL")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to retrieve URL")
		return
	}

	if _, err := h.clicks.Record(ctx, code, clientIP(r), r.UserAgent()); err != nil {
		// The redirect must not fail because of an analytics fault
		log.Error().Err(err).Str("short_url", code).Msg("Failed to record click, serving redirect anyway")
	}

	log.Info().
		Str("short_url", code).
		Str("long_url", link.LongURL).
		Str("remote_addr", r.RemoteAddr).
		Msg("Redirecting")

	http.Redirect(w, r, link.LongURL, http.StatusMovedPermanently)
}

// resolve reads a link through the cache. Cached entries are safe because
// links are immutable; deletion invalidates them.
func (h *URLHandler) resolve(ctx context.Context, code string) (*model.Link, error) {
	if h.config.Cache.Enabled {
		if link, found := h.cache.Get(code); found {
			log.Debug().Str("short_url", code).Msg("Cache hit")
			return link, nil
		}
	}

	link, err := h.links.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	if h.config.Cache.Enabled {
		h.cache.Set(*link)
	}
	return link, nil
}

// HealthCheck handles GET /health
func (h *URLHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.redis.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("Redis health check failed")
		SendJSONError(w, http.StatusServiceUnavailable, errors.New("unhealthy"), "Redis unavailable")
		return
	}

	SendJSONSuccess(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"redis":  "connected",
	})
}

// CacheMetrics handles GET /cache/metrics
func (h *URLHandler) CacheMetrics(w http.ResponseWriter, r *http.Request) {
	if !h.config.Cache.Enabled || h.cache == nil {
		SendJSONError(w, http.StatusServiceUnavailable, errors.New("cache is disabled"), "")
		return
	}

	SendJSONSuccess(w, http.StatusOK, h.cache.GetMetricsSnapshot())
}
