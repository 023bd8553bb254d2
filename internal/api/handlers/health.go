package handlers

import (
	"net/http"
	"time"

	"scamtrap-lab/internal/infrastructure/cache"
	"scamtrap-lab/pkg/logger"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cache     *cache.RedisCache
	logger    *logger.Logger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(c *cache.RedisCache, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		cache:     c,
		logger:    log.WithComponent("health"),
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Message:   "Honeypot API is running",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready - checks dependencies
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := http.StatusOK
	overallStatus := "ready"

	if h.cache != nil {
		if err := h.cache.Client().Ping(r.Context()).Err(); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
			status = http.StatusServiceUnavailable
			overallStatus = "not ready"
		} else {
			checks["redis"] = "healthy"
		}
	} else {
		checks["redis"] = "not configured"
	}

	respondJSON(w, status, HealthResponse{
		Status:    overallStatus,
		Message:   "Honeypot API readiness",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
