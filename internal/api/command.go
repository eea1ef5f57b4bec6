package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/marquee/internal/content"
)

// defaultCommandClient is the command file consulted when no client name
// is given; browser-based players all share it.
const defaultCommandClient = "web"

// CommandResponse wraps whatever command object is queued for a display.
// Command is null when nothing is pending and {} when the file on disk is
// unreadable; clients deduplicate via the command's ts field.
type CommandResponse struct {
	OK      bool `json:"ok"`
	Command any  `json:"command"`
}

// CommandHandler handles command pass-through requests
type CommandHandler struct {
	settings *content.Settings
}

// NewCommandHandler creates a new command handler instance
func NewCommandHandler(settings *content.Settings) *CommandHandler {
	return &CommandHandler{settings: settings}
}

// GetCommand handles GET /api/command
func (h *CommandHandler) GetCommand(c *gin.Context) {
	h.respond(c, defaultCommandClient)
}

// GetCommandForClient handles GET /api/command/:client
func (h *CommandHandler) GetCommandForClient(c *gin.Context) {
	client := c.Param("client")

	// Security: client names map directly to filenames
	if client == "" || strings.Contains(client, "..") || strings.ContainsAny(client, "/\\") {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_client",
			Message: "Invalid client name",
		})
		return
	}

	h.respond(c, client)
}

func (h *CommandHandler) respond(c *gin.Context, client string) {
	c.JSON(http.StatusOK, CommandResponse{
		OK:      true,
		Command: h.settings.Command(client),
	})
}

// SetupCommandRoutes registers command pass-through routes
func SetupCommandRoutes(apiGroup *gin.RouterGroup, settings *content.Settings) {
	handler := NewCommandHandler(settings)

	apiGroup.GET("/command", handler.GetCommand)
	apiGroup.GET("/command/:client", handler.GetCommandForClient)
}
