package probe

import (
	"context"
	"os"

	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/logger"
	"github.com/stwalsh4118/marquee/internal/metrics"
	"github.com/stwalsh4118/marquee/internal/models"
)

// Cache wraps a prober with a database-backed duration cache keyed on file
// identity (path, size, mtime). Replacing a file on disk invalidates its
// row without explicit eviction, so a changed video is re-probed on the
// next lookup.
type Cache struct {
	inner Prober
	repo  *db.DurationRepository
}

// NewCache creates a caching prober over the given inner prober.
func NewCache(inner Prober, repo *db.DurationRepository) *Cache {
	return &Cache{
		inner: inner,
		repo:  repo,
	}
}

// Duration returns the cached duration for the file when its identity still
// matches, probing and refreshing the cache otherwise.
func (c *Cache) Duration(ctx context.Context, filePath string) (float64, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		// No identity to cache on, hand straight to the prober
		return c.inner.Duration(ctx, filePath)
	}

	cached, err := c.repo.Lookup(ctx, filePath, info.Size(), info.ModTime())
	if err == nil {
		metrics.ProbeCacheHits.Inc()
		return cached, nil
	}
	if !db.IsNotFound(err) {
		logger.Log.Warn().
			Str("file_path", filePath).
			Err(err).
			Msg("Duration cache lookup failed")
	}
	metrics.ProbeCacheMisses.Inc()

	duration, err := c.inner.Duration(ctx, filePath)
	if err != nil {
		metrics.ProbeFailures.Inc()
		return 0, err
	}

	row := models.NewMediaDuration(filePath, info.Size(), info.ModTime(), duration)
	if err := c.repo.Upsert(ctx, row); err != nil {
		logger.Log.Warn().
			Str("file_path", filePath).
			Err(err).
			Msg("Failed to cache probed duration")
	}
	return duration, nil
}

// Warm probes every given file so later lookups hit the cache. Returns the
// number of files whose duration is now cached. Stops early when the
// context is cancelled.
func (c *Cache) Warm(ctx context.Context, paths []string) int {
	warmed := 0
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return warmed
		default:
		}

		if _, err := c.Duration(ctx, path); err != nil {
			logger.Log.Warn().
				Str("file_path", path).
				Err(err).
				Msg("Failed to warm duration cache")
			continue
		}
		warmed++
	}
	return warmed
}

// Prune drops cache rows for files no longer in the library.
func (c *Cache) Prune(ctx context.Context, keep []string) (int64, error) {
	return c.repo.Prune(ctx, keep)
}
