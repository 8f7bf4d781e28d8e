// Package server provides the public JSON API server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mealprep/pantrymatch/internal/infrastructure/config"
	"github.com/mealprep/pantrymatch/internal/infrastructure/http/handlers"
	"github.com/mealprep/pantrymatch/internal/infrastructure/http/middleware"
	"github.com/mealprep/pantrymatch/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// Routes groups the handlers mounted under /api/v1
type Routes struct {
	Recipes   *handlers.RecipeHandlers
	Pantry    *handlers.PantryHandlers
	MealPlans *handlers.MealPlanHandlers
}

// NewRouter builds the gin engine. metrics and tracing may be nil.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	routes Routes,
	metrics *monitoring.MetricsCollector,
	tracing *monitoring.TracingProvider,
) (*gin.Engine, error) {
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	engine.HandleMethodNotAllowed = true

	mw := middleware.New(cfg, logger)
	engine.Use(mw.RequestID(), mw.Recovery())
	if tracing != nil {
		engine.Use(tracing.HTTPMiddleware())
	}
	if metrics != nil {
		engine.Use(metrics.HTTPMiddleware())
	}
	engine.Use(mw.Logger(), mw.Security(), mw.CORS(), mw.RateLimit(), mw.ErrorHandler())

	engine.GET("/health", handlers.Health(cfg.App.Version))

	v1 := engine.Group("/api/v1")
	v1.GET("/health", handlers.Health(cfg.App.Version))
	routes.Recipes.Register(v1)
	routes.Pantry.Register(v1)
	routes.MealPlans.Register(v1)

	return engine, nil
}

// Server wraps the http.Server serving the gin engine
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewServer creates the API server listening on server.host:server.port
func NewServer(cfg *config.Config, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:        handler,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
		logger: logger.Named("api-server"),
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start serves until Shutdown. http.ErrServerClosed is not an error.
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}
