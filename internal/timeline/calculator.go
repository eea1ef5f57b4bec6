// Package timeline turns a playlist and a shared epoch into the playback
// position every display client should be showing right now, creating the
// illusion of one continuously running channel across independent screens.
package timeline

import (
	"math"
	"time"

	"github.com/stwalsh4118/marquee/internal/models"
)

// CalculatePosition calculates which entry is live at currentTime for a
// playlist anchored at startTime. This is a pure function with no I/O -
// independent pollers computing it with the same inputs get identical
// results, which is what keeps clients in sync without talking to each
// other.
//
// The playlist loops forever: elapsed time wraps modulo the playlist's
// total duration. An empty playlist, an all-zero-duration playlist, or a
// currentTime at/before startTime all yield index 0 with no offset.
//
// Performance: O(n) in playlist length.
func CalculatePosition(startTime, currentTime time.Time, playlist []models.Entry) Position {
	elapsed := currentTime.Sub(startTime).Seconds()
	if elapsed < 0 {
		// The anchor is set to "now" on reset, so a negative elapsed only
		// occurs under clock skew. Treat it as the start of the loop.
		elapsed = 0
	}

	totalDuration := models.TotalDuration(playlist)
	if totalDuration == 0 {
		return Position{}
	}

	// Position within one loop of the playlist
	position := math.Mod(elapsed, totalDuration)

	// Single-pass linear walk to find the entry containing the position
	var accumulated float64
	for i, entry := range playlist {
		if position < accumulated+entry.Duration {
			return Position{
				Index:       i,
				ItemElapsed: position - accumulated,
			}
		}
		accumulated += entry.Duration
	}

	// Float rounding can land the position exactly on the total duration;
	// wrap to the start of the loop
	return Position{}
}
