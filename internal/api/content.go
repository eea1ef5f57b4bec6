package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/marquee/internal/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ContentHandler serves raw video and slide files to displays.
type ContentHandler struct {
	videosDir string
	slidesDir string
}

// NewContentHandler creates a new content handler instance
func NewContentHandler(videosDir, slidesDir string) *ContentHandler {
	return &ContentHandler{
		videosDir: videosDir,
		slidesDir: slidesDir,
	}
}

// ServeVideo handles GET /content/videos/*filepath
func (h *ContentHandler) ServeVideo(c *gin.Context) {
	h.serveFrom(c, h.videosDir)
}

// ServeSlide handles GET /content/slides/*filepath
func (h *ContentHandler) ServeSlide(c *gin.Context) {
	h.serveFrom(c, h.slidesDir)
}

// serveFrom streams a file from below root. Slide paths contain a deck
// directory segment, so slashes are allowed; everything must still resolve
// inside the root.
func (h *ContentHandler) serveFrom(c *gin.Context, root string) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")
	if rel == "" {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "File not found",
		})
		return
	}

	// Security: Prevent directory traversal attacks
	if strings.Contains(rel, "..") || strings.Contains(rel, "\\") {
		logger.Log.Warn().
			Str("path", rel).
			Str("client_ip", c.ClientIP()).
			Msg("Directory traversal attempt detected")

		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_path",
			Message: "Invalid file path",
		})
		return
	}

	fullPath := filepath.Join(root, filepath.FromSlash(rel))

	// Security: Verify the resolved path is still within the content root
	absRoot, err := filepath.Abs(root)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("root", root).
			Msg("Failed to resolve content root path")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "path_error",
			Message: "Failed to validate file path",
		})
		return
	}

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_path",
			Message: "Invalid file path",
		})
		return
	}

	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(os.PathSeparator)) {
		logger.Log.Warn().
			Str("path", rel).
			Str("client_ip", c.ClientIP()).
			Msg("Path traversal attempt blocked")

		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_path",
			Message: "Invalid file path",
		})
		return
	}

	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "File not found",
		})
		return
	}

	// Displays revalidate on each fetch; ServeFile answers unchanged files
	// with 304 from the modtime, and handles Range for video seeking.
	c.Header("Cache-Control", "no-cache")

	c.File(fullPath)
}

// SetupContentRoutes registers raw file serving routes
func SetupContentRoutes(router *gin.Engine, videosDir, slidesDir string) {
	handler := NewContentHandler(videosDir, slidesDir)

	contentGroup := router.Group("/content")
	contentGroup.GET("/videos/*filepath", handler.ServeVideo)
	contentGroup.GET("/slides/*filepath", handler.ServeSlide)
}
