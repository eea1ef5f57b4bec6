// Package api provides HTTP handlers for the REST API endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/marquee/internal/models"
	"github.com/stwalsh4118/marquee/internal/timeline"
)

// PlaylistResponse is the stateless playlist document: the entry list and
// its fingerprint. Video entries carry no duration here.
type PlaylistResponse struct {
	Playlist []models.Entry `json:"playlist"`
	Hash     string         `json:"hash"`
}

// SyncedPlaylistResponse adds the shared timeline: every display that polls
// this endpoint computes the same playhead from the same anchor.
type SyncedPlaylistResponse struct {
	Playlist          []models.Entry `json:"playlist"`
	Hash              string         `json:"hash"`
	ServerTime        float64        `json:"serverTime"`
	PlaylistStartTime float64        `json:"playlistStartTime"`
	CurrentIndex      int            `json:"currentIndex"`
	ItemElapsed       float64        `json:"itemElapsed"`
}

// PlaylistHandler handles playlist-related API requests
type PlaylistHandler struct {
	service *timeline.Service
}

// NewPlaylistHandler creates a new playlist handler instance
func NewPlaylistHandler(service *timeline.Service) *PlaylistHandler {
	return &PlaylistHandler{service: service}
}

// GetPlaylist handles GET /api/playlist
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	snapshot := h.service.GetPlaylist(c.Request.Context())

	c.JSON(http.StatusOK, PlaylistResponse{
		Playlist: nonNilEntries(snapshot.Playlist),
		Hash:     snapshot.Fingerprint,
	})
}

// GetSyncedPlaylist handles GET /api/playlist-sync
func (h *PlaylistHandler) GetSyncedPlaylist(c *gin.Context) {
	snapshot := h.service.GetSyncedPlaylist(c.Request.Context(), time.Now().UTC())

	c.JSON(http.StatusOK, SyncedPlaylistResponse{
		Playlist:          nonNilEntries(snapshot.Playlist),
		Hash:              snapshot.Fingerprint,
		ServerTime:        unixSeconds(snapshot.ServerTime),
		PlaylistStartTime: unixSeconds(snapshot.StartTime),
		CurrentIndex:      snapshot.Position.Index,
		ItemElapsed:       snapshot.Position.ItemElapsed,
	})
}

// nonNilEntries keeps an empty playlist serializing as [] rather than null.
func nonNilEntries(entries []models.Entry) []models.Entry {
	if entries == nil {
		return []models.Entry{}
	}
	return entries
}

// unixSeconds converts a time to fractional seconds since the epoch, the
// format the displays feed into their local playhead math.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// SetupPlaylistRoutes registers playlist-related routes
func SetupPlaylistRoutes(apiGroup *gin.RouterGroup, service *timeline.Service) {
	handler := NewPlaylistHandler(service)

	apiGroup.GET("/playlist", handler.GetPlaylist)
	apiGroup.GET("/playlist-sync", handler.GetSyncedPlaylist)
}
