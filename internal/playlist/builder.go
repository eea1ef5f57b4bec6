// Package playlist materializes the ordered playlist served to display
// clients and computes the fingerprint used to detect content changes.
package playlist

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/stwalsh4118/marquee/internal/logger"
	"github.com/stwalsh4118/marquee/internal/models"
)

// Client-facing URL prefixes for the byte-serving routes.
const (
	videoURLPrefix = "/content/videos/"
	slideURLPrefix = "/content/slides/"
)

// ContentSource lists the media available for scheduling.
type ContentSource interface {
	ListVideos() []models.VideoFile
	ListSlides() []models.SlideImage
	Presentation(stem string) (models.Presentation, bool)
}

// ConfigSource supplies the display mode and the optional explicit
// selection that overrides natural ordering.
type ConfigSource interface {
	Mode() models.Mode
	Selection() []models.SelectionItem
}

// DurationProber yields a video's playback duration in seconds.
type DurationProber interface {
	Duration(ctx context.Context, filePath string) (float64, error)
}

// Builder assembles playlists from library content, the active mode, and
// the optional selection. It owns the ordering rules and the per-entry
// duration assignment; it holds no mutable state, so one Builder serves
// concurrent requests.
type Builder struct {
	content ContentSource
	config  ConfigSource
	prober  DurationProber

	slideDuration        float64
	defaultVideoDuration float64
}

// NewBuilder creates a playlist builder.
func NewBuilder(content ContentSource, config ConfigSource, prober DurationProber, slideDuration, defaultVideoDuration time.Duration) *Builder {
	return &Builder{
		content:              content,
		config:               config,
		prober:               prober,
		slideDuration:        slideDuration.Seconds(),
		defaultVideoDuration: defaultVideoDuration.Seconds(),
	}
}

// Build materializes the stateless playlist view: video entries carry no
// duration, slide entries carry the fixed slide duration.
func (b *Builder) Build(ctx context.Context) []models.Entry {
	return b.build(ctx, false)
}

// BuildWithDurations materializes the synchronized playlist view, where
// every entry carries a duration so clients can do timing math.
func (b *Builder) BuildWithDurations(ctx context.Context) []models.Entry {
	return b.build(ctx, true)
}

func (b *Builder) build(ctx context.Context, withDurations bool) []models.Entry {
	mode := b.config.Mode()
	selection := b.config.Selection()

	if len(selection) > 0 {
		logger.Log.Debug().
			Int("entries", len(selection)).
			Str("mode", string(mode)).
			Msg("Building playlist from explicit selection")
		return b.buildFromSelection(ctx, mode, selection, withDurations)
	}
	return b.buildDefault(ctx, mode, withDurations)
}

// buildDefault emits every enumerated video followed by every enumerated
// slide, filtered by mode. This is the fallback ordering when no selection
// is configured.
func (b *Builder) buildDefault(ctx context.Context, mode models.Mode, withDurations bool) []models.Entry {
	var entries []models.Entry

	if mode.AllowsVideo() {
		for _, video := range b.content.ListVideos() {
			entries = append(entries, b.videoEntry(ctx, video, withDurations))
		}
	}
	if mode.AllowsPresentation() {
		for _, slide := range b.content.ListSlides() {
			entries = append(entries, b.slideEntry(slide))
		}
	}
	return entries
}

// buildFromSelection resolves each selection item against known videos
// first, then against presentation stems. Repeats wrap a presentation's
// whole slide group, not individual slides. Names that match nothing are
// dropped without error.
func (b *Builder) buildFromSelection(ctx context.Context, mode models.Mode, selection []models.SelectionItem, withDurations bool) []models.Entry {
	videosByName := make(map[string]models.VideoFile)
	for _, video := range b.content.ListVideos() {
		videosByName[video.Name] = video
	}

	var entries []models.Entry
	for _, item := range selection {
		if video, ok := videosByName[item.Name]; ok && mode.AllowsVideo() {
			for i := 0; i < item.Repeats; i++ {
				entries = append(entries, b.videoEntry(ctx, video, withDurations))
			}
			continue
		}

		// Not a playable video name: treat it as a presentation reference
		// and expand the whole deck per repeat.
		pres, ok := b.content.Presentation(presentationStem(item.Name))
		if !ok || !mode.AllowsPresentation() {
			continue
		}
		for i := 0; i < item.Repeats; i++ {
			for _, slide := range pres.Slides {
				entries = append(entries, b.slideEntry(slide))
			}
		}
	}
	return entries
}

func (b *Builder) videoEntry(ctx context.Context, video models.VideoFile, withDurations bool) models.Entry {
	entry := models.Entry{
		Type: models.EntryTypeVideo,
		URL:  videoURLPrefix + video.Name,
		Name: video.Name,
	}
	if withDurations {
		entry.Duration = b.videoDuration(ctx, video.Path)
	}
	return entry
}

func (b *Builder) slideEntry(slide models.SlideImage) models.Entry {
	return models.Entry{
		Type:     models.EntryTypeImage,
		URL:      slideURLPrefix + slide.RelPath,
		Name:     slide.Name,
		Duration: b.slideDuration,
	}
}

// videoDuration probes the file, falling back to the configured estimate
// so a probe failure never blocks the playlist build.
func (b *Builder) videoDuration(ctx context.Context, path string) float64 {
	duration, err := b.prober.Duration(ctx, path)
	if err != nil {
		logger.Log.Warn().
			Str("file_path", path).
			Err(err).
			Msg("Duration probe failed, using default estimate")
		return b.defaultVideoDuration
	}
	return duration
}

// presentationStem maps a selection name to the cache directory stem for
// its rendered slides, stripping any file extension.
func presentationStem(name string) string {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}
