package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

// HealthResponse reports liveness and the state of each dependency.
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthHandler reports service health.
type HealthHandler struct {
	checks  map[string]CheckFunc
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewHealthHandler creates a health handler running the given checks.
func NewHealthHandler(checks map[string]CheckFunc, log logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		timeout: 2 * time.Second,
		log:     log,
	}
}

// Check godoc
// @Summary Health check
// @Description Check that the service and its dependencies are reachable
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.WithError(err).WithField("check", name).Warn("health check failed")
			results[name] = "unavailable"
			healthy = false
			continue
		}
		results[name] = "ok"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:  "ERROR",
			Message: "Service is degraded",
			Checks:  results,
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:  "OK",
		Message: "Server is running",
		Checks:  results,
	})
}
