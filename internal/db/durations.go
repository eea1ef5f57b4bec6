package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stwalsh4118/marquee/internal/models"
)

// DurationRepository handles database operations for cached probe results
type DurationRepository struct {
	db *DB
}

// NewDurationRepository creates a new duration repository
func NewDurationRepository(db *DB) *DurationRepository {
	return &DurationRepository{db: db}
}

// GetByPath retrieves the cache row for a file path
func (r *DurationRepository) GetByPath(ctx context.Context, path string) (*models.MediaDuration, error) {
	var cached models.MediaDuration
	result := r.db.WithContext(ctx).Where("path = ?", path).First(&cached)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &cached, nil
}

// Lookup returns the cached duration for a file, but only when the cached
// size and modification time still match the file on disk. A stale or
// missing row reports ErrNotFound.
func (r *DurationRepository) Lookup(ctx context.Context, path string, size int64, modTime time.Time) (float64, error) {
	cached, err := r.GetByPath(ctx, path)
	if err != nil {
		return 0, err
	}
	if cached.Size != size || !cached.ModTime.Equal(modTime) {
		return 0, ErrNotFound
	}
	return cached.DurationSeconds, nil
}

// Upsert stores or refreshes the cached duration for a file path. The
// create-then-update pair runs in one transaction so concurrent probes of
// the same file cannot interleave between the two statements.
func (r *DurationRepository) Upsert(ctx context.Context, cached *models.MediaDuration) error {
	if cached.Path == "" {
		return fmt.Errorf("%w: path must not be empty", ErrInvalidInput)
	}

	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		err := MapGormError(tx.Create(cached).Error)
		if err == nil {
			return nil
		}
		if !IsDuplicate(err) {
			return fmt.Errorf("failed to create duration cache row: %w", err)
		}

		// Duplicate path, refresh the existing row in place
		updates := map[string]interface{}{
			"size":             cached.Size,
			"mod_time":         cached.ModTime,
			"duration_seconds": cached.DurationSeconds,
			"probed_at":        cached.ProbedAt,
		}
		result := tx.Model(&models.MediaDuration{}).Where("path = ?", cached.Path).Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update duration cache row: %w", MapGormError(result.Error))
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Prune deletes cache rows whose path is not in the keep set, reclaiming
// rows for files removed from the library
func (r *DurationRepository) Prune(ctx context.Context, keep []string) (int64, error) {
	query := r.db.WithContext(ctx)
	if len(keep) == 0 {
		query = query.Where("1 = 1")
	} else {
		query = query.Where("path NOT IN ?", keep)
	}

	result := query.Delete(&models.MediaDuration{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune duration cache: %w", MapGormError(result.Error))
	}
	return result.RowsAffected, nil
}

// Count returns the number of cached durations
func (r *DurationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.MediaDuration{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count duration cache: %w", MapGormError(result.Error))
	}
	return count, nil
}
