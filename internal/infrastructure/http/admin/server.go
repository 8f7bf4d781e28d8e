// Package admin serves the operational endpoints on a separate port
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mealprep/pantrymatch/internal/infrastructure/config"
	"github.com/mealprep/pantrymatch/pkg/healthcheck"
	"go.uber.org/zap"
)

// Server exposes /metrics, /health and /ready
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewRouter builds the admin routes. metrics may be nil when metrics are disabled.
func NewRouter(version string, metrics http.Handler, health *healthcheck.HealthCheck) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(10 * time.Second))

	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    healthcheck.StatusHealthy,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	})

	r.Get("/ready", health.Handler())

	return r
}

// NewServer creates the admin server on server.host:server.admin_port
func NewServer(cfg *config.Config, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.AdminPort),
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		logger: logger.Named("admin-server"),
	}
}

// Start serves until Shutdown
func (s *Server) Start() error {
	s.logger.Info("Starting admin server", zap.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
