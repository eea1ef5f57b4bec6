// Package probe measures video durations. The primary implementation
// shells out to ffprobe; a static fallback and a database-backed cache
// wrap it for deployments where probing is slow or unavailable.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/stwalsh4118/marquee/internal/logger"
)

// Default timeout for FFprobe execution
const defaultProbeTimeout = 30 * time.Second

// Common errors
var (
	ErrFFprobeNotFound = errors.New("ffprobe not found in PATH")
	ErrFileNotFound    = errors.New("file not found or not readable")
	ErrInvalidFile     = errors.New("invalid or corrupted video file")
	ErrTimeout         = errors.New("ffprobe execution timed out")
)

// Prober yields the playback duration of a video file in seconds.
type Prober interface {
	Duration(ctx context.Context, filePath string) (float64, error)
}

// FFprobeResult represents the top-level JSON output from FFprobe
type FFprobeResult struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream represents a video or audio stream
type Stream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"` // "video" or "audio"
	Duration  string `json:"duration,omitempty"`
}

// Format represents the file format information
type Format struct {
	Filename string `json:"filename"`
	Duration string `json:"duration"`
}

// FFprobe measures durations by invoking the ffprobe binary.
type FFprobe struct {
	timeout time.Duration
}

// NewFFprobe creates an ffprobe-backed prober with the given per-file
// execution timeout.
func NewFFprobe(timeout time.Duration) *FFprobe {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &FFprobe{timeout: timeout}
}

// CheckFFprobeInstalled checks if FFprobe is available in PATH
func CheckFFprobeInstalled() error {
	_, err := exec.LookPath("ffprobe")
	if err != nil {
		return ErrFFprobeNotFound
	}
	return nil
}

// Duration executes FFprobe on the given file and returns its duration in
// seconds.
func (p *FFprobe) Duration(ctx context.Context, filePath string) (float64, error) {
	// Check FFprobe is available
	if err := CheckFFprobeInstalled(); err != nil {
		return 0, err
	}

	logger.Log.Debug().
		Str("file_path", filePath).
		Msg("Probing video file with FFprobe")

	// Create context with timeout
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// Build FFprobe command
	cmd := exec.CommandContext(ctx,
		"ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	// Execute command
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			logger.Log.Error().
				Str("file_path", filePath).
				Msg("FFprobe execution timed out")
			return 0, ErrTimeout
		}

		// Check if it's a file not found error
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr := string(exitErr.Stderr)
			logger.Log.Error().
				Str("file_path", filePath).
				Str("stderr", stderr).
				Msg("FFprobe execution failed")

			// Check for common error patterns
			if len(stderr) > 0 {
				return 0, fmt.Errorf("%w: %s", ErrInvalidFile, stderr)
			}
		}

		logger.Log.Error().
			Err(err).
			Str("file_path", filePath).
			Msg("FFprobe command failed")
		return 0, fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}

	// Parse JSON output
	var result FFprobeResult
	if err := json.Unmarshal(output, &result); err != nil {
		logger.Log.Error().
			Err(err).
			Str("file_path", filePath).
			Msg("Failed to parse FFprobe JSON output")
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	// Extract duration
	duration, err := extractDuration(&result)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("file_path", filePath).
			Msg("Failed to extract duration from FFprobe result")
		return 0, err
	}

	logger.Log.Debug().
		Str("file_path", filePath).
		Float64("duration", duration).
		Msg("Successfully probed video file")

	return duration, nil
}

// extractDuration pulls the duration out of an FFprobeResult, preferring
// the video stream's own duration over the container format's.
func extractDuration(result *FFprobeResult) (float64, error) {
	var videoStream *Stream
	for i := range result.Streams {
		if result.Streams[i].CodecType == "video" {
			videoStream = &result.Streams[i]
			break
		}
	}

	if videoStream != nil && videoStream.Duration != "" {
		if duration, err := strconv.ParseFloat(videoStream.Duration, 64); err == nil && duration > 0 {
			return duration, nil
		}
	}

	// Fall back to format duration if stream duration not available
	if result.Format.Duration != "" {
		if duration, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil && duration > 0 {
			return duration, nil
		}
	}

	return 0, fmt.Errorf("%w: could not determine video duration", ErrInvalidFile)
}
