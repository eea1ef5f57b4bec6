// Package models defines the core domain types shared across the service.
package models

// EntryType identifies what kind of content a playlist entry schedules.
type EntryType string

// Playlist entry type constants
const (
	EntryTypeVideo EntryType = "video"
	EntryTypeImage EntryType = "image"
)

// Entry represents one schedulable playlist item: a video file or a single
// rendered presentation slide. Entries are immutable once built; their order
// within a playlist defines playback order.
//
// Duration is in seconds. The stateless playlist snapshot leaves it unset for
// videos (omitted on the wire); the synchronized snapshot always populates it,
// since the timeline math depends on it.
type Entry struct {
	Type     EntryType `json:"type"`
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	Duration float64   `json:"duration,omitempty"`
}

// TotalDuration sums the durations of all entries in seconds.
// Entries without a duration contribute zero.
func TotalDuration(entries []Entry) float64 {
	var total float64
	for _, entry := range entries {
		total += entry.Duration
	}
	return total
}
