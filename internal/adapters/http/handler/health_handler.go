package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string            `json:"status"`
	Models map[string]string `json:"models"`
}

// HealthHandler reports liveness and the configured backend per model slot
type HealthHandler struct {
	backends map[string]string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(backends map[string]string) *HealthHandler {
	return &HealthHandler{backends: backends}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Models: h.backends,
	})
}
