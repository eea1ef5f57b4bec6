package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stwalsh4118/marquee/internal/logger"
	"github.com/stwalsh4118/marquee/internal/metrics"
)

const (
	defaultPollInterval = 2 * time.Second
	debounceWindow      = 500 * time.Millisecond
)

// Warmer keeps probed durations fresh for the current set of video files.
type Warmer interface {
	Warm(ctx context.Context, paths []string) int
	Prune(ctx context.Context, keep []string) (int64, error)
}

// Watcher observes the content directories and refreshes the duration cache
// when files change. Playlists are rebuilt on every request, so the watcher
// is not needed for correctness; it keeps the first synced request after a
// content change from paying the full probe cost.
type Watcher interface {
	Start() error
	Stop() error
	Rescan() // force an immediate cache refresh
}

// libraryWatcher implements Watcher using fsnotify with polling fallback
type libraryWatcher struct {
	library      *Library
	warmer       Warmer
	pollInterval time.Duration

	fsnotifyWatcher *fsnotify.Watcher
	stopChan        chan struct{}
	watchDone       chan struct{}

	mu      sync.Mutex
	pending bool
	started bool
	stopped bool
}

// NewWatcher creates a watcher over the library's video and slide
// directories. The directories are created if missing so they can be
// watched immediately.
func NewWatcher(library *Library, warmer Warmer, pollInterval time.Duration) (Watcher, error) {
	if library == nil {
		return nil, fmt.Errorf("library cannot be nil")
	}
	if warmer == nil {
		return nil, fmt.Errorf("warmer cannot be nil")
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	if err := os.MkdirAll(library.VideosDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create videos directory: %w", err)
	}
	if err := os.MkdirAll(library.SlidesDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create slides directory: %w", err)
	}

	return &libraryWatcher{
		library:      library,
		warmer:       warmer,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
		watchDone:    make(chan struct{}),
	}, nil
}

// Start begins watching the content directories in a background goroutine.
func (lw *libraryWatcher) Start() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.stopped {
		return fmt.Errorf("watcher has been stopped")
	}

	log := logger.Component("watcher")

	// Try to create fsnotify watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().
			Err(err).
			Msg("Failed to create fsnotify watcher, falling back to polling")
		lw.fsnotifyWatcher = nil
	} else {
		lw.fsnotifyWatcher = watcher
		if err := lw.addWatchDirs(watcher); err != nil {
			log.Warn().
				Err(err).
				Msg("Failed to watch content directories, falling back to polling")
			_ = watcher.Close()
			lw.fsnotifyWatcher = nil
		}
	}

	lw.started = true
	go lw.runWatching()

	log.Info().
		Str("videos_dir", lw.library.VideosDir()).
		Str("slides_dir", lw.library.SlidesDir()).
		Bool("using_fsnotify", lw.fsnotifyWatcher != nil).
		Msg("Content watcher started")

	return nil
}

// addWatchDirs registers both content roots and any existing deck
// subdirectories with the fsnotify watcher.
func (lw *libraryWatcher) addWatchDirs(watcher *fsnotify.Watcher) error {
	if err := watcher.Add(lw.library.VideosDir()); err != nil {
		return fmt.Errorf("failed to watch videos directory: %w", err)
	}
	if err := watcher.Add(lw.library.SlidesDir()); err != nil {
		return fmt.Errorf("failed to watch slides directory: %w", err)
	}

	// fsnotify does not recurse, so each deck directory is watched directly.
	entries, err := os.ReadDir(lw.library.SlidesDir())
	if err != nil {
		return nil
	}

	log := logger.Component("watcher")
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		deckDir := filepath.Join(lw.library.SlidesDir(), entry.Name())
		if err := watcher.Add(deckDir); err != nil {
			log.Warn().
				Err(err).
				Str("deck_dir", deckDir).
				Msg("Failed to watch deck directory")
		}
	}
	return nil
}

// Stop gracefully stops the watcher
func (lw *libraryWatcher) Stop() error {
	lw.mu.Lock()
	if lw.stopped {
		lw.mu.Unlock()
		return nil
	}
	lw.stopped = true
	started := lw.started
	lw.mu.Unlock()

	// Never started, so there is no watch goroutine to wait for
	if !started {
		return nil
	}

	log := logger.Component("watcher")

	close(lw.stopChan)

	if lw.fsnotifyWatcher != nil {
		if err := lw.fsnotifyWatcher.Close(); err != nil {
			log.Warn().
				Err(err).
				Msg("Error closing fsnotify watcher")
		}
	}

	<-lw.watchDone

	log.Debug().Msg("Content watcher stopped")

	return nil
}

// Rescan refreshes the duration cache for the library's current videos:
// missing durations are probed and rows for removed files are deleted.
func (lw *libraryWatcher) Rescan() {
	lw.rescan()
}

// runWatching runs the file watching loop (fsnotify or polling)
func (lw *libraryWatcher) runWatching() {
	defer close(lw.watchDone)

	if lw.fsnotifyWatcher != nil {
		lw.startWatching()
	} else {
		lw.startPolling()
	}
}

// startWatching consumes fsnotify events, coalescing bursts into a single
// rescan per debounce window.
func (lw *libraryWatcher) startWatching() {
	log := logger.Component("watcher")

	ticker := time.NewTicker(debounceWindow)
	defer ticker.Stop()

	for {
		select {
		case <-lw.stopChan:
			return
		case event, ok := <-lw.fsnotifyWatcher.Events:
			if !ok {
				return
			}
			lw.handleFileEvent(event)
		case err, ok := <-lw.fsnotifyWatcher.Errors:
			if !ok {
				return
			}
			metrics.WatcherErrors.Inc()
			log.Warn().
				Err(err).
				Msg("fsnotify error, continuing")
		case <-ticker.C:
			lw.mu.Lock()
			pending := lw.pending
			lw.pending = false
			lw.mu.Unlock()
			if pending {
				lw.rescan()
			}
		}
	}
}

// handleFileEvent marks a rescan pending for any event touching library
// content, and picks up newly created deck directories.
func (lw *libraryWatcher) handleFileEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)

	relevant := isVideoFile(name) || isSlideFile(name)
	if !relevant && event.Op&fsnotify.Create == fsnotify.Create {
		// A new directory under the slide root is a deck being rendered.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if filepath.Dir(event.Name) == lw.library.SlidesDir() {
				if err := lw.fsnotifyWatcher.Add(event.Name); err != nil {
					log := logger.Component("watcher")
					log.Warn().
						Err(err).
						Str("deck_dir", event.Name).
						Msg("Failed to watch new deck directory")
				}
				relevant = true
			}
		}
	}
	if !relevant {
		return
	}

	metrics.WatcherEventsTotal.WithLabelValues(opLabel(event.Op)).Inc()

	lw.mu.Lock()
	lw.pending = true
	lw.mu.Unlock()
}

// opLabel maps an fsnotify op bitmask to a metric label.
func opLabel(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create == fsnotify.Create:
		return "create"
	case op&fsnotify.Write == fsnotify.Write:
		return "write"
	case op&fsnotify.Remove == fsnotify.Remove:
		return "remove"
	case op&fsnotify.Rename == fsnotify.Rename:
		return "rename"
	default:
		return "other"
	}
}

// startPolling compares directory snapshots on an interval when fsnotify
// is unavailable.
func (lw *libraryWatcher) startPolling() {
	ticker := time.NewTicker(lw.pollInterval)
	defer ticker.Stop()

	var last string

	for {
		select {
		case <-lw.stopChan:
			return
		case <-ticker.C:
			current := lw.snapshot()
			if current == last {
				continue
			}
			last = current
			metrics.WatcherEventsTotal.WithLabelValues("poll").Inc()
			lw.rescan()
		}
	}
}

// snapshot summarizes the library contents as a comparable string: every
// file's path, size, and modification time.
func (lw *libraryWatcher) snapshot() string {
	var sb strings.Builder
	for _, video := range lw.library.ListVideos() {
		writeSnapshotLine(&sb, video.Path)
	}
	for _, slide := range lw.library.ListSlides() {
		writeSnapshotLine(&sb, slide.Path)
	}
	return sb.String()
}

func writeSnapshotLine(sb *strings.Builder, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	sb.WriteString(path)
	sb.WriteByte('|')
	sb.WriteString(strconv.FormatInt(info.Size(), 10))
	sb.WriteByte('|')
	sb.WriteString(strconv.FormatInt(info.ModTime().UnixNano(), 10))
	sb.WriteByte('\n')
}

// rescan warms the duration cache for the current video set and prunes
// rows for files that no longer exist.
func (lw *libraryWatcher) rescan() {
	log := logger.Component("watcher")

	videos := lw.library.ListVideos()
	paths := make([]string, 0, len(videos))
	for _, video := range videos {
		paths = append(paths, video.Path)
	}

	ctx := context.Background()
	warmed := lw.warmer.Warm(ctx, paths)

	pruned, err := lw.warmer.Prune(ctx, paths)
	if err != nil {
		log.Warn().
			Err(err).
			Msg("Failed to prune duration cache")
	}

	metrics.WatcherRescansTotal.Inc()

	log.Debug().
		Int("videos", len(paths)).
		Int("warmed", warmed).
		Int64("pruned", pruned).
		Msg("Content rescan complete")
}
