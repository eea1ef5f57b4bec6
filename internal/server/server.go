// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stwalsh4118/marquee/internal/api"
	"github.com/stwalsh4118/marquee/internal/config"
	"github.com/stwalsh4118/marquee/internal/content"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/logger"
	"github.com/stwalsh4118/marquee/internal/middleware"
	"github.com/stwalsh4118/marquee/internal/playlist"
	"github.com/stwalsh4118/marquee/internal/probe"
	"github.com/stwalsh4118/marquee/internal/timeline"
)

//go:embed player.html
var playerPage []byte

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	db       *db.DB
	repos    *db.Repositories
	library  *content.Library
	settings *content.Settings
	cache    *probe.Cache
	service  *timeline.Service
	watcher  content.Watcher
	router   *gin.Engine
	server   *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	repos := db.NewRepositories(database)
	library := content.NewLibrary(cfg.Content.VideosDir, cfg.Content.SlidesDir)
	settings := content.NewSettings(cfg.Content.ModeFile, cfg.Content.SelectionFile, cfg.Content.CommandsDir)

	// When probing is enabled, measured durations flow through the
	// database-backed cache. Otherwise every video gets the configured
	// default and the cache (and watcher) stay out of the picture.
	var prober probe.Prober
	var cache *probe.Cache
	if cfg.Probe.Enabled {
		cache = probe.NewCache(probe.NewFFprobe(cfg.Probe.Timeout), repos.Durations)
		prober = cache
	} else {
		prober = probe.NewStatic(cfg.Playback.DefaultVideoDuration)
	}

	builder := playlist.NewBuilder(library, settings, prober, cfg.Playback.SlideDuration, cfg.Playback.DefaultVideoDuration)
	service := timeline.NewService(builder, timeline.NewAnchor())

	return &Server{
		config:   cfg,
		db:       database,
		repos:    repos,
		library:  library,
		settings: settings,
		cache:    cache,
		service:  service,
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create new Gin router
	s.router = gin.New()

	// Add middleware stack
	s.router.Use(middleware.RequestID())     // Request ID propagation
	s.router.Use(middleware.RequestLogger()) // Custom zerolog request logger
	s.router.Use(gin.Recovery())             // Panic recovery
	s.router.Use(middleware.Metrics())       // Prometheus request metrics
	s.router.Use(cors.Default())             // CORS support (allows all origins)

	// Create API route group
	apiGroup := s.router.Group("/api")

	// Register service routes
	api.SetupHealthRoutes(apiGroup, s.db, s.library)
	api.SetupPlaylistRoutes(apiGroup, s.service)
	api.SetupCommandRoutes(apiGroup, s.settings)

	// Raw media files for the TV clients
	api.SetupContentRoutes(s.router, s.library.VideosDir(), s.library.SlidesDir())

	// Prometheus metrics endpoint
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Embedded browser player
	s.router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", playerPage)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	// Watch the content directories so new files get probed before a
	// client asks for them. Without the probe cache there is nothing to
	// warm, so the watcher stays off.
	if s.cache != nil {
		watcher, err := content.NewWatcher(s.library, s.cache, 0)
		if err != nil {
			return fmt.Errorf("failed to create content watcher: %w", err)
		}
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to start content watcher: %w", err)
		}
		s.watcher = watcher

		// Warm the cache for files already on disk without delaying startup
		go s.watcher.Rescan()
	}

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Bool("probe_enabled", s.config.Probe.Enabled).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Stop the content watcher
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to stop content watcher")
		}
	}

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
