package timeline

import (
	"sync"
	"time"

	"github.com/stwalsh4118/marquee/internal/models"
)

// Anchor owns the shared playback epoch for the current playlist version.
// The start time moves only when the playlist fingerprint changes, so every
// client measures elapsed playback from the same instant. This is the one
// piece of mutable shared state in the sync path.
type Anchor struct {
	mu          sync.Mutex
	fingerprint string
	playlist    []models.Entry
	startTime   time.Time
	set         bool
}

// NewAnchor creates an empty anchor. The first Sync call establishes the
// initial epoch.
func NewAnchor() *Anchor {
	return &Anchor{}
}

// Sync compares fingerprint against the stored one and resets the epoch to
// now when they differ. The compare and the swap happen under one lock, so
// concurrent pollers that both observe a stale fingerprint converge on a
// single reset: the first committer wins and the rest adopt its epoch.
//
// Returns the committed playlist, the committed start time, and whether
// this call performed the reset.
func (a *Anchor) Sync(fingerprint string, playlist []models.Entry, now time.Time) ([]models.Entry, time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.set && a.fingerprint == fingerprint {
		return a.playlist, a.startTime, false
	}

	a.fingerprint = fingerprint
	a.playlist = playlist
	a.startTime = now
	a.set = true
	return playlist, now, true
}
