package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	service string
	checks  map[string]Checker
}

// NewHealthHandler creates a HealthHandler. checks are run by the readiness probe.
func NewHealthHandler(service string, checks map[string]Checker) *HealthHandler {
	return &HealthHandler{service: service, checks: checks}
}

// RegisterRoutes registers the probe routes at the router root.
func (h *HealthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Live)
	r.GET("/health/ready", h.Ready)
}

// Live handles GET /health.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Ready handles GET /health/ready.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	c.JSON(status, gin.H{"status": overall, "service": h.service, "checks": results})
}
