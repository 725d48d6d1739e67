package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DatabaseHealth reports whether the database is reachable and how its
// connection pool is doing
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status      string                       `json:"status" example:"healthy"`
	Time        string                       `json:"time" example:"2026-01-24T12:00:00Z"`
	Database    string                       `json:"database" example:"ok"`
	Connections *persistence.ConnectionStats `json:"connections,omitempty"`
}

// HealthHandler serves the liveness check
type HealthHandler struct {
	db      DatabaseHealth
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseHealth) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

// Check godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Time: time.Now().Format(time.RFC3339), Database: "ok"}
	if stats, err := h.db.Stats(); err == nil {
		resp.Connections = &stats
	}

	if err := h.db.Ping(ctx); err != nil {
		logger.L(c.Request.Context()).Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
