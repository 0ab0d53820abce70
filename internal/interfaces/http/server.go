// internal/interfaces/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nabin216/ZotPot/internal/config"
	"github.com/nabin216/ZotPot/internal/interfaces/http/handlers"
	"github.com/nabin216/ZotPot/internal/interfaces/http/middleware"
	"github.com/nabin216/ZotPot/internal/interfaces/http/routes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const maxRequestBody = 10 << 20 // 10MB

// Server represents the local API server
type Server struct {
	config     *config.Config
	deps       routes.Dependencies
	checks     map[string]handlers.HealthCheck
	registry   *prometheus.Registry
	logger     logrus.FieldLogger
	gin        *gin.Engine
	httpServer *http.Server
}

// NewServer builds the gin engine with all middleware and routes. registry
// receives the HTTP metrics and is served on /metrics.
func NewServer(cfg *config.Config, deps routes.Dependencies, checks map[string]handlers.HealthCheck, registry *prometheus.Registry) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:   cfg,
		deps:     deps,
		checks:   checks,
		registry: registry,
		logger:   deps.Logger,
		gin:      gin.New(),
	}

	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s, nil
}

// Handler exposes the engine, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"port":     s.config.Server.Port,
		"base_url": fmt.Sprintf("http://localhost:%s/api/v1", s.config.Server.Port),
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	if s.registry != nil {
		s.gin.Use(middleware.NewHTTPMetrics(s.registry).Handler())
	}
	s.gin.Use(middleware.CORS(s.config.Security))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RequestSizeLimit(maxRequestBody))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.config, s.checks)
	s.gin.GET("/health", healthHandler.Health)
	s.gin.GET("/ready", healthHandler.Ready)

	if s.registry != nil {
		s.gin.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	// avatars stored on disk without a CDN in front
	if s.config.Storage.Provider == "local" && s.config.Storage.CDNBaseURL == "" {
		s.gin.Static("/uploads", s.config.Storage.LocalPath)
	}

	apiV1 := s.gin.Group("/api/v1")
	apiV1.Use(middleware.Timeout(s.config.Server.RequestTimeout))
	routes.SetupRoutes(apiV1, s.deps)

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name + " local API",
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"metrics":     "/metrics",
				"endpoints": gin.H{
					"state":    "/api/v1/state",
					"stream":   "/api/v1/state/stream",
					"auth":     "/api/v1/auth",
					"profile":  "/api/v1/profile",
					"cart":     "/api/v1/cart",
					"checkout": "/api/v1/checkout",
					"payment":  "/api/v1/payment",
					"orders":   "/api/v1/orders",
				},
			})
		})
	}
}
