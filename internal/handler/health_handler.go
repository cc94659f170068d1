package handler

import (
	"net/http"

	"adscribe/internal/service"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	healthService *service.HealthChecker
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(healthService *service.HealthChecker) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// HandleHealth handles GET requests to the /health endpoint
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := h.healthService.CheckHealth(r.Context())

	code := http.StatusOK
	if status.Status != service.StatusHealthy {
		code = http.StatusServiceUnavailable
	}

	WriteJSON(w, code, status)
}
