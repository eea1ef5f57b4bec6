// Package content enumerates playable media on disk and reads the
// operator-owned sidecar files that shape playlist assembly.
package content

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/stwalsh4118/marquee/internal/logger"
	"github.com/stwalsh4118/marquee/internal/models"
)

// Supported video file extensions
var supportedVideoFormats = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}

// Slide images rendered from a presentation follow this naming scheme
// inside the per-presentation cache directory.
const slideFilePattern = "slide_*.png"

// Library lists the video files and rendered slide decks available for
// playback. All lookups tolerate missing directories: a library that does
// not exist yet is simply empty, never an error.
type Library struct {
	videosDir string
	slidesDir string
}

// NewLibrary creates a content library rooted at the given directories.
func NewLibrary(videosDir, slidesDir string) *Library {
	return &Library{
		videosDir: videosDir,
		slidesDir: slidesDir,
	}
}

// VideosDir returns the directory video files are served from.
func (l *Library) VideosDir() string {
	return l.videosDir
}

// SlidesDir returns the directory rendered slides are served from.
func (l *Library) SlidesDir() string {
	return l.slidesDir
}

// ListVideos returns all recognized video files sorted by filename.
func (l *Library) ListVideos() []models.VideoFile {
	entries, err := os.ReadDir(l.videosDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn().
				Str("dir", l.videosDir).
				Err(err).
				Msg("Failed to read videos directory")
		}
		return nil
	}

	var videos []models.VideoFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !isVideoFile(entry.Name()) {
			continue
		}
		videos = append(videos, models.VideoFile{
			Name: entry.Name(),
			Path: filepath.Join(l.videosDir, entry.Name()),
		})
	}
	return videos
}

// ListPresentations returns every rendered slide deck, sorted by stem, with
// slides sorted by filename inside each deck.
func (l *Library) ListPresentations() []models.Presentation {
	entries, err := os.ReadDir(l.slidesDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn().
				Str("dir", l.slidesDir).
				Err(err).
				Msg("Failed to read slides directory")
		}
		return nil
	}

	var presentations []models.Presentation
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		presentations = append(presentations, models.Presentation{
			Stem:   entry.Name(),
			Slides: l.listDeckSlides(entry.Name()),
		})
	}
	return presentations
}

// ListSlides returns every cached slide image across all presentations,
// flattened in presentation order.
func (l *Library) ListSlides() []models.SlideImage {
	var slides []models.SlideImage
	for _, pres := range l.ListPresentations() {
		slides = append(slides, pres.Slides...)
	}
	return slides
}

// Presentation looks up a rendered slide deck by stem. The second return
// value reports whether the deck directory exists.
func (l *Library) Presentation(stem string) (models.Presentation, bool) {
	if stem == "" {
		return models.Presentation{}, false
	}
	info, err := os.Stat(filepath.Join(l.slidesDir, stem))
	if err != nil || !info.IsDir() {
		return models.Presentation{}, false
	}
	return models.Presentation{
		Stem:   stem,
		Slides: l.listDeckSlides(stem),
	}, true
}

// listDeckSlides lists the slide images of one presentation directory,
// sorted by filename.
func (l *Library) listDeckSlides(stem string) []models.SlideImage {
	deckDir := filepath.Join(l.slidesDir, stem)
	entries, err := os.ReadDir(deckDir)
	if err != nil {
		logger.Log.Warn().
			Str("dir", deckDir).
			Err(err).
			Msg("Failed to read presentation directory")
		return nil
	}

	var slides []models.SlideImage
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !isSlideFile(entry.Name()) {
			continue
		}
		slides = append(slides, models.SlideImage{
			Name:    entry.Name(),
			Path:    filepath.Join(deckDir, entry.Name()),
			RelPath: stem + "/" + entry.Name(),
		})
	}
	return slides
}

// isVideoFile checks if a file has a supported video extension
func isVideoFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supportedExt := range supportedVideoFormats {
		if ext == supportedExt {
			return true
		}
	}
	return false
}

// isSlideFile checks if a file matches the rendered slide naming scheme
func isSlideFile(name string) bool {
	matched, err := filepath.Match(slideFilePattern, name)
	return err == nil && matched
}
