package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/marquee/internal/content"
	"github.com/stwalsh4118/marquee/internal/db"
)

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status   string                 `json:"status"`
	Database string                 `json:"database"`
	Content  string                 `json:"content"`
	Time     string                 `json:"time"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db      *db.DB
	library *content.Library
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(database *db.DB, library *content.Library) *HealthHandler {
	return &HealthHandler{db: database, library: library}
}

// Check handles the health check endpoint
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:  "ok",
		Content: "visible",
		Time:    time.Now().UTC().Format(time.RFC3339),
		Details: make(map[string]interface{}),
	}

	// A missing content root is not fatal: the playlist is just empty.
	// Report it so an operator can tell an empty library from a bad mount.
	if _, err := os.Stat(h.library.VideosDir()); err != nil {
		response.Status = "degraded"
		response.Content = "missing"
		response.Details["videos_dir_error"] = err.Error()
	}
	if _, err := os.Stat(h.library.SlidesDir()); err != nil {
		response.Status = "degraded"
		response.Content = "missing"
		response.Details["slides_dir_error"] = err.Error()
	}

	// Check duration cache connectivity
	if err := h.db.Health(ctx); err != nil {
		response.Status = "degraded"
		response.Database = "unhealthy"
		response.Details["database_error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	response.Database = "healthy"
	c.JSON(http.StatusOK, response)
}

// SetupHealthRoutes registers health check routes
func SetupHealthRoutes(apiGroup *gin.RouterGroup, database *db.DB, library *content.Library) {
	handler := NewHealthHandler(database, library)
	apiGroup.GET("/health", handler.Check)
}
