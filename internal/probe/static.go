package probe

import (
	"context"
	"time"
)

// Static assigns the same fixed duration to every file. It stands in for
// ffprobe when probing is disabled or the binary is missing, keeping the
// synchronized timeline usable with estimated durations.
type Static struct {
	duration float64
}

// NewStatic creates a prober that reports the given duration for all files.
func NewStatic(duration time.Duration) *Static {
	return &Static{duration: duration.Seconds()}
}

// Duration returns the fixed duration regardless of the file.
func (p *Static) Duration(ctx context.Context, filePath string) (float64, error) {
	return p.duration, nil
}
