package timeline

import (
	"time"

	"github.com/stwalsh4118/marquee/internal/models"
)

// Position describes which playlist entry is live and how far into it
// playback has progressed.
type Position struct {
	// Index is the position of the live entry in the playlist
	Index int `json:"index"`

	// ItemElapsed is how many seconds of the live entry have already played
	ItemElapsed float64 `json:"item_elapsed"`
}

// PlaylistSnapshot is the stateless playlist view: the entries and their
// fingerprint, with no timing attached.
type PlaylistSnapshot struct {
	Playlist    []models.Entry
	Fingerprint string
}

// Snapshot is one synchronized view of the playlist for a polling client.
// Clients combine StartTime with their own clock to stay aligned between
// polls.
type Snapshot struct {
	Playlist    []models.Entry
	Fingerprint string
	ServerTime  time.Time
	StartTime   time.Time
	Position    Position
}
