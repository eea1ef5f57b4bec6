package timeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/marquee/internal/content"
	"github.com/stwalsh4118/marquee/internal/playlist"
)

// fixedProber reports the same duration for every file.
type fixedProber struct {
	seconds float64
}

func (p fixedProber) Duration(_ context.Context, _ string) (float64, error) {
	return p.seconds, nil
}

// newTestService wires a Service over a real content tree in a temp dir.
// Every video probes to 12 seconds, slides get 10, fallback is 30.
func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	root := t.TempDir()
	videosDir := filepath.Join(root, "videos")
	slidesDir := filepath.Join(root, "slides")
	require.NoError(t, os.MkdirAll(videosDir, 0o755))
	require.NoError(t, os.MkdirAll(slidesDir, 0o755))

	library := content.NewLibrary(videosDir, slidesDir)
	settings := content.NewSettings(
		filepath.Join(root, "config.json"),
		filepath.Join(root, "playlist.json"),
		filepath.Join(root, "commands"),
	)
	builder := playlist.NewBuilder(library, settings, fixedProber{seconds: 12}, 10*time.Second, 30*time.Second)

	return NewService(builder, NewAnchor()), videosDir
}

func addVideo(t *testing.T, videosDir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(videosDir, name), []byte("video"), 0o644))
}

func TestService_GetSyncedPlaylist_StableAnchor(t *testing.T) {
	svc, videosDir := newTestService(t)
	addVideo(t, videosDir, "a.mp4")
	addVideo(t, videosDir, "b.mp4")

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := svc.GetSyncedPlaylist(context.Background(), t0)

	require.Len(t, first.Playlist, 2)
	assert.Equal(t, t0, first.StartTime)
	assert.Equal(t, t0, first.ServerTime)
	assert.Equal(t, 0, first.Position.Index)

	// 15 seconds later with unchanged content: same fingerprint, same
	// anchor, and the playhead has advanced into the second video.
	second := svc.GetSyncedPlaylist(context.Background(), t0.Add(15*time.Second))

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, t0, second.StartTime)
	assert.Equal(t, t0.Add(15*time.Second), second.ServerTime)
	assert.Equal(t, 1, second.Position.Index)
	assert.InDelta(t, 3, second.Position.ItemElapsed, 1e-9)
}

func TestService_GetSyncedPlaylist_ResetsOnContentChange(t *testing.T) {
	svc, videosDir := newTestService(t)
	addVideo(t, videosDir, "a.mp4")

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := svc.GetSyncedPlaylist(context.Background(), t0)
	require.Len(t, first.Playlist, 1)

	addVideo(t, videosDir, "b.mp4")
	t1 := t0.Add(time.Minute)
	second := svc.GetSyncedPlaylist(context.Background(), t1)

	require.Len(t, second.Playlist, 2)
	assert.NotEqual(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, t1, second.StartTime)
	assert.Equal(t, 0, second.Position.Index)
	assert.InDelta(t, 0, second.Position.ItemElapsed, 1e-9)
}

func TestService_GetPlaylist_Stateless(t *testing.T) {
	svc, videosDir := newTestService(t)
	addVideo(t, videosDir, "a.mp4")

	snap := svc.GetPlaylist(context.Background())

	require.Len(t, snap.Playlist, 1)
	assert.Equal(t, "a.mp4", snap.Playlist[0].Name)
	assert.Zero(t, snap.Playlist[0].Duration)
	assert.Len(t, snap.Fingerprint, 64)
}

func TestService_GetPlaylist_DoesNotDisturbAnchor(t *testing.T) {
	svc, videosDir := newTestService(t)
	addVideo(t, videosDir, "a.mp4")

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := svc.GetSyncedPlaylist(context.Background(), t0)

	svc.GetPlaylist(context.Background())

	second := svc.GetSyncedPlaylist(context.Background(), t0.Add(2*time.Second))
	assert.Equal(t, first.StartTime, second.StartTime)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
}

func TestService_GetSyncedPlaylist_EmptyLibrary(t *testing.T) {
	svc, _ := newTestService(t)

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := svc.GetSyncedPlaylist(context.Background(), t0)

	assert.Empty(t, snap.Playlist)
	assert.Equal(t, Position{}, snap.Position)
	assert.Equal(t, t0, snap.StartTime)
	assert.Len(t, snap.Fingerprint, 64)
}
