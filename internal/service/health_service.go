package service

import (
	"context"
	"database/sql"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Health status constants
const (
	StatusHealthy      = "healthy"
	StatusDegraded     = "degraded"
	StatusUnhealthy    = "unhealthy"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// HealthStatus represents the overall health status of the application
type HealthStatus struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
}

// HealthChecker probes the service's hard dependencies
type HealthChecker struct {
	db       *sql.DB
	queueURL string
	version  string
}

// NewHealthService creates a new HealthChecker instance
func NewHealthService(db *sql.DB, queueURL, version string) *HealthChecker {
	return &HealthChecker{
		db:       db,
		queueURL: queueURL,
		version:  version,
	}
}

// checkDatabase verifies PostgreSQL connectivity with a timeout
func (h *HealthChecker) checkDatabase(ctx context.Context) string {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(pingCtx); err != nil {
		return StatusDisconnected
	}
	return StatusConnected
}

// checkQueue verifies RabbitMQ connectivity
func (h *HealthChecker) checkQueue() string {
	conn, err := amqp.Dial(h.queueURL)
	if err != nil {
		return StatusDisconnected
	}
	defer conn.Close()

	return StatusConnected
}

// CheckHealth probes all dependencies and returns the overall status.
// The database is a hard dependency; the queue only degrades service
// (copy generation stalls, submissions still work).
func (h *HealthChecker) CheckHealth(ctx context.Context) *HealthStatus {
	services := map[string]string{
		"database": h.checkDatabase(ctx),
		"queue":    h.checkQueue(),
	}

	overall := StatusHealthy
	if services["queue"] == StatusDisconnected {
		overall = StatusDegraded
	}
	if services["database"] == StatusDisconnected {
		overall = StatusUnhealthy
	}

	return &HealthStatus{
		Status:    overall,
		Services:  services,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}
}
