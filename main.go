package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shorter/cache"
	"shorter/config"
	"shorter/handler"
	appLogger "shorter/logger"
	"shorter/middleware"
	redisClient "shorter/redis"
	"shorter/store"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// No .env file is fine, real env vars still apply
	_ = godotenv.Load()

	appLogger.Initialize()

	cfg := config.MustLoadConfig()
	log.Info().Msg("Configuration loaded successfully")

	rdb := redisClient.NewClient(cfg.Redis)

	var cacheClient *cache.Cache
	if cfg.Cache.Enabled {
		var err error
		cacheClient, err = cache.New(cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize cache")
		}
	} else {
		log.Info().Msg("Cache disabled in configuration")
	}

	// Stores and aggregator
	links := store.NewLinkStore(rdb, cfg.Shortener)
	clicks := store.NewClickStore(rdb)
	users := store.NewUserStore(rdb)
	dashboards := store.NewDashboardService(links, clicks)

	// Handlers with dependency injection
	urlHandler := handler.NewURLHandler(rdb, links, clicks, cacheClient, cfg)
	userHandler := handler.NewUserHandler(users)
	dashboardHandler := handler.NewDashboardHandler(dashboards)

	r := mux.NewRouter()

	// Global middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	r.Use(middleware.CORS)
	r.Use(middleware.RequestLogger)
	r.Use(rateLimiter.Limit)

	// Register routes
	r.HandleFunc("/health", urlHandler.HealthCheck).Methods("GET")
	r.HandleFunc("/cache/metrics", urlHandler.CacheMetrics).Methods("GET")

	r.HandleFunc("/api/url", urlHandler.CreateShortURL).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/url/getUrlsByUserId/{email}", urlHandler.GetURLsByOwner).Methods("GET")
	r.HandleFunc("/api/url/{shortURL}", urlHandler.GetLongURL).Methods("GET")
	r.HandleFunc("/api/url/{shortURL}/click", urlHandler.RecordClick).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/url/{shortURL}/stats", urlHandler.GetClickStats).Methods("GET")
	r.HandleFunc("/api/url/{id}", urlHandler.DeleteURL).Methods("DELETE")
	r.HandleFunc("/api/users", userHandler.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/dashboard/{email}", dashboardHandler.GetDashboard).Methods("GET")

	r.HandleFunc("/qr/{shortURL}", urlHandler.GenerateQR).Methods("GET")

	// Redirect route (must be last to avoid conflicts)
	r.HandleFunc("/{shortURL}", urlHandler.Redirect).Methods("GET")

	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("scheme", cfg.WebServer.Scheme).
			Msg("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if cacheClient != nil {
		cacheClient.Close()
	}

	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Redis connection")
	}

	log.Info().Msg("Server stopped gracefully")
}
