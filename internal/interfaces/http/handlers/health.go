// internal/interfaces/http/handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nabin216/ZotPot/internal/config"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler handles health and readiness endpoints
type HealthHandler struct {
	config  *config.Config
	checks  map[string]HealthCheck
	started time.Time
}

// NewHealthHandler creates a new health handler. checks is keyed by
// dependency name ("database", "redis").
func NewHealthHandler(cfg *config.Config, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		config:  cfg,
		checks:  checks,
		started: time.Now(),
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  name + " check failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     h.config.App.Version,
		"environment": h.config.App.Environment,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
	})
}
