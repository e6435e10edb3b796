// Package server exposes the HTTP health and metrics endpoints next to
// the bot's Telegram surface.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"party-finder-bot/internal/config"
	"party-finder-bot/internal/pkg/db"
)

// Server is the auxiliary HTTP server.
type Server struct {
	http *http.Server
	pool *db.Pool
	rdb  *redis.Client
}

// New creates the HTTP server with /health and /metrics routes.
func New(cfg *config.HTTPConfig, pool *db.Pool, rdb *redis.Client) *Server {
	s := &Server{pool: pool, rdb: rdb}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving. It blocks until Shutdown is called or the
// listener fails.
func (s *Server) Start() error {
	log.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleHealth reports liveness of the bot's backing stores.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK

	if err := s.pool.HealthCheck(ctx); err != nil {
		log.Error().Err(err).Msg("Database health check failed")
		status, code = "unhealthy", http.StatusServiceUnavailable
	} else if err := s.rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("Redis health check failed")
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
