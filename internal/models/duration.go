package models

import "time"

// MediaDuration is a cached probe result for one video file. The cache key is
// the file path together with its size and modification time, so replacing a
// file on disk invalidates the row without any explicit eviction.
type MediaDuration struct {
	ID              int64     `json:"id" gorm:"type:integer;primaryKey;autoIncrement;column:id"`
	Path            string    `json:"path" gorm:"type:text;not null;uniqueIndex;column:path"`
	Size            int64     `json:"size" gorm:"type:integer;not null;column:size"`
	ModTime         time.Time `json:"mod_time" gorm:"type:datetime;not null;column:mod_time"`
	DurationSeconds float64   `json:"duration_seconds" gorm:"type:real;not null;column:duration_seconds"`
	ProbedAt        time.Time `json:"probed_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:probed_at"`
}

// TableName pins the table name used by the migrations.
func (MediaDuration) TableName() string {
	return "media_durations"
}

// NewMediaDuration creates a cache row for a probed file.
func NewMediaDuration(path string, size int64, modTime time.Time, duration float64) *MediaDuration {
	return &MediaDuration{
		Path:            path,
		Size:            size,
		ModTime:         modTime,
		DurationSeconds: duration,
		ProbedAt:        time.Now().UTC(),
	}
}
