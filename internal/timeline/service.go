package timeline

import (
	"context"
	"time"

	"github.com/stwalsh4118/marquee/internal/logger"
	"github.com/stwalsh4118/marquee/internal/metrics"
	"github.com/stwalsh4118/marquee/internal/models"
	"github.com/stwalsh4118/marquee/internal/playlist"
)

// Service produces the two client-facing playlist views. Playlists are
// rebuilt from the filesystem on every call; only the anchor carries state
// between calls, so the service itself is safe for concurrent use.
type Service struct {
	builder *playlist.Builder
	anchor  *Anchor
}

// NewService creates a timeline service around a playlist builder and a
// sync anchor.
func NewService(builder *playlist.Builder, anchor *Anchor) *Service {
	return &Service{
		builder: builder,
		anchor:  anchor,
	}
}

// GetPlaylist returns the stateless playlist view: current entries and
// their fingerprint, with no timing state consulted or mutated.
func (s *Service) GetPlaylist(ctx context.Context) PlaylistSnapshot {
	entries := s.builder.Build(ctx)
	return PlaylistSnapshot{
		Playlist:    entries,
		Fingerprint: playlist.Fingerprint(entries),
	}
}

// GetSyncedPlaylist returns the synchronized view for a client polling at
// now: the duration-annotated playlist, the shared epoch, and the position
// the client should be showing. A fingerprint change resets the epoch; the
// compare-and-reset is atomic inside the anchor, so one reset happens per
// transition no matter how many clients poll during it.
func (s *Service) GetSyncedPlaylist(ctx context.Context, now time.Time) Snapshot {
	entries := s.builder.BuildWithDurations(ctx)
	fingerprint := playlist.Fingerprint(entries)

	committed, startTime, changed := s.anchor.Sync(fingerprint, entries, now)
	if changed {
		metrics.AnchorResetsTotal.Inc()
		metrics.PlaylistEntries.Set(float64(len(committed)))
		metrics.PlaylistDurationSeconds.Set(models.TotalDuration(committed))
		logger.Log.Info().
			Str("fingerprint", fingerprint).
			Int("entries", len(committed)).
			Time("start_time", startTime).
			Msg("Playlist changed, sync anchor reset")
	}

	return Snapshot{
		Playlist:    committed,
		Fingerprint: fingerprint,
		ServerTime:  now,
		StartTime:   startTime,
		Position:    CalculatePosition(startTime, now, committed),
	}
}
