//go:build integration
// +build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/marquee/internal/api"
	"github.com/stwalsh4118/marquee/internal/content"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/middleware"
	"github.com/stwalsh4118/marquee/internal/playlist"
	"github.com/stwalsh4118/marquee/internal/timeline"
)

const (
	testSlideDuration = 10 * time.Second
	testVideoDuration = 30 * time.Second
)

// fixedProber reports the same duration for every video without shelling
// out to ffprobe.
type fixedProber struct {
	seconds float64
}

func (p fixedProber) Duration(_ context.Context, _ string) (float64, error) {
	return p.seconds, nil
}

// setupTestDB creates an in-memory test database with migrations applied
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()

	// Create in-memory database; journal mode is irrelevant for :memory:
	database, err := db.New(":memory:", false)
	require.NoError(t, err, "Failed to create in-memory database")

	// Run migrations
	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")

	// Get absolute path to migrations directory relative to this file
	// This ensures tests work regardless of working directory
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)                     // test/integration
	rootDir := filepath.Dir(filepath.Dir(testDir))        // module root
	migrationsDir := filepath.Join(rootDir, "migrations") // migrations
	migrationsPath := "file://" + migrationsDir

	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err, "Failed to run migrations")

	// Create repositories
	repos := db.NewRepositories(database)

	// Cleanup function
	cleanup := func() {
		database.Close()
	}

	return database, repos, cleanup
}

// signageStack wires the full request path the way the production server
// does, rooted in temp directories owned by the test.
type signageStack struct {
	VideosDir   string
	SlidesDir   string
	CommandsDir string
	ModeFile    string
	SelectFile  string

	Library  *content.Library
	Settings *content.Settings
	Service  *timeline.Service
	Router   *gin.Engine
}

// setupSignageStack builds the complete middleware and route stack over
// fresh content directories
func setupSignageStack(t *testing.T, database *db.DB, prober playlist.DurationProber) *signageStack {
	t.Helper()

	root := t.TempDir()
	s := &signageStack{
		VideosDir:   filepath.Join(root, "content", "videos"),
		SlidesDir:   filepath.Join(root, "cache", "slides"),
		CommandsDir: filepath.Join(root, "commands"),
		ModeFile:    filepath.Join(root, "config.json"),
		SelectFile:  filepath.Join(root, "playlist.json"),
	}
	require.NoError(t, os.MkdirAll(s.VideosDir, 0o755))
	require.NoError(t, os.MkdirAll(s.SlidesDir, 0o755))
	require.NoError(t, os.MkdirAll(s.CommandsDir, 0o755))

	s.Library = content.NewLibrary(s.VideosDir, s.SlidesDir)
	s.Settings = content.NewSettings(s.ModeFile, s.SelectFile, s.CommandsDir)

	builder := playlist.NewBuilder(s.Library, s.Settings, prober, testSlideDuration, testVideoDuration)
	s.Service = timeline.NewService(builder, timeline.NewAnchor())

	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Same middleware stack as the production router
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())
	router.Use(cors.Default())

	apiGroup := router.Group("/api")
	api.SetupHealthRoutes(apiGroup, database, s.Library)
	api.SetupPlaylistRoutes(apiGroup, s.Service)
	api.SetupCommandRoutes(apiGroup, s.Settings)
	api.SetupContentRoutes(router, s.Library.VideosDir(), s.Library.SlidesDir())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.Router = router
	return s
}

// addVideo drops a video file into the watched videos directory
func (s *signageStack) addVideo(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(s.VideosDir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644), "Failed to create video file %s", name)
	return path
}

// addDeck creates a rendered slide deck under the slides cache
func (s *signageStack) addDeck(t *testing.T, deck string, slides ...string) {
	t.Helper()
	dir := filepath.Join(s.SlidesDir, deck)
	require.NoError(t, os.MkdirAll(dir, 0o755), "Failed to create deck dir %s", deck)
	for _, slide := range slides {
		path := filepath.Join(dir, slide)
		require.NoError(t, os.WriteFile(path, []byte("png bytes"), 0o644), "Failed to create slide %s", slide)
	}
}

// writeMode writes the display mode sidecar file
func (s *signageStack) writeMode(t *testing.T, mode string) {
	t.Helper()
	body, err := json.Marshal(map[string]string{"mode": mode})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.ModeFile, body, 0o644), "Failed to write mode file")
}

// writeSelection writes the explicit playlist selection sidecar file.
// Items may be bare name strings or maps with name/repeats keys.
func (s *signageStack) writeSelection(t *testing.T, items ...any) {
	t.Helper()
	body, err := json.Marshal(items)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.SelectFile, body, 0o644), "Failed to write selection file")
}

// writeCommand drops a pending command file for the named client
func (s *signageStack) writeCommand(t *testing.T, client string, payload map[string]any) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	path := filepath.Join(s.CommandsDir, client+".json")
	require.NoError(t, os.WriteFile(path, body, 0o644), "Failed to write command file")
}

// get performs a GET request against the in-memory router
func (s *signageStack) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

// getJSON performs a GET request and decodes the JSON response body
func (s *signageStack) getJSON(t *testing.T, path string, out any) int {
	t.Helper()
	w := s.get(t, path)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "Failed to decode response from %s", path)
	return w.Code
}
