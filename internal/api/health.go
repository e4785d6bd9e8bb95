// Package api provides the HTTP handlers for netgraph.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// readyTimeout bounds the store check behind /ready.
const readyTimeout = 3 * time.Second

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	store         Readier
	log           *logrus.Logger
	version       string
	schemaVersion int
	startTime     time.Time
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
func NewHealthHandler(store Readier, log *logrus.Logger, version string, schemaVersion int) *HealthHandler {
	return &HealthHandler{
		store:         store,
		log:           log,
		version:       version,
		schemaVersion: schemaVersion,
		startTime:     time.Now(),
	}
}

// healthResponse is the JSON payload returned by the liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	SchemaVersion int     `json:"schema_version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Liveness handles GET /health. It never touches the store.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       h.version,
		SchemaVersion: h.schemaVersion,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// Readiness handles GET /ready by pinging the store.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := h.store.Ready(ctx); err != nil {
		h.log.WithError(err).Error("readiness: store check failed")
		c.JSON(http.StatusServiceUnavailable, readinessResponse{
			Status: "not_ready",
			Checks: map[string]string{"store": "error"},
		})

		return
	}

	c.JSON(http.StatusOK, readinessResponse{
		Status: "ready",
		Checks: map[string]string{"store": "ok"},
	})
}
