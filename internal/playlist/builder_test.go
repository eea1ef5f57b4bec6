package playlist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/marquee/internal/content"
	"github.com/stwalsh4118/marquee/internal/models"
)

// stubProber returns canned durations keyed by file basename and errors
// for anything else
type stubProber struct {
	durations map[string]float64
}

func (p *stubProber) Duration(ctx context.Context, filePath string) (float64, error) {
	if d, ok := p.durations[filepath.Base(filePath)]; ok {
		return d, nil
	}
	return 0, errors.New("no probe result")
}

// builderFixture wires a Builder over a real temp content tree
type builderFixture struct {
	t             *testing.T
	builder       *Builder
	videosDir     string
	slidesDir     string
	modeFile      string
	selectionFile string
}

func newFixture(t *testing.T, prober DurationProber) *builderFixture {
	t.Helper()
	dir := t.TempDir()

	f := &builderFixture{
		t:             t,
		videosDir:     filepath.Join(dir, "videos"),
		slidesDir:     filepath.Join(dir, "slides"),
		modeFile:      filepath.Join(dir, "config.json"),
		selectionFile: filepath.Join(dir, "playlist.json"),
	}
	require.NoError(t, os.MkdirAll(f.videosDir, 0755))
	require.NoError(t, os.MkdirAll(f.slidesDir, 0755))

	library := content.NewLibrary(f.videosDir, f.slidesDir)
	settings := content.NewSettings(f.modeFile, f.selectionFile, dir)
	f.builder = NewBuilder(library, settings, prober, 10*time.Second, 30*time.Second)
	return f
}

func (f *builderFixture) addVideo(name string) {
	f.t.Helper()
	require.NoError(f.t, os.WriteFile(filepath.Join(f.videosDir, name), []byte("video"), 0644))
}

func (f *builderFixture) addDeck(stem string, slides ...string) {
	f.t.Helper()
	deckDir := filepath.Join(f.slidesDir, stem)
	require.NoError(f.t, os.MkdirAll(deckDir, 0755))
	for _, slide := range slides {
		require.NoError(f.t, os.WriteFile(filepath.Join(deckDir, slide), []byte("png"), 0644))
	}
}

func (f *builderFixture) setMode(mode string) {
	f.t.Helper()
	require.NoError(f.t, os.WriteFile(f.modeFile, []byte(`{"mode": "`+mode+`"}`), 0644))
}

func (f *builderFixture) setSelection(contents string) {
	f.t.Helper()
	require.NoError(f.t, os.WriteFile(f.selectionFile, []byte(contents), 0644))
}

func TestBuild_DefaultOrdering(t *testing.T) {
	f := newFixture(t, &stubProber{})
	f.addVideo("b_video.mp4")
	f.addVideo("a_video.mp4")
	f.addDeck("deck1", "slide_001.png", "slide_002.png")
	f.addDeck("deck0", "slide_001.png")

	entries := f.builder.Build(context.Background())

	expected := []models.Entry{
		{Type: models.EntryTypeVideo, URL: "/content/videos/a_video.mp4", Name: "a_video.mp4"},
		{Type: models.EntryTypeVideo, URL: "/content/videos/b_video.mp4", Name: "b_video.mp4"},
		{Type: models.EntryTypeImage, URL: "/content/slides/deck0/slide_001.png", Name: "slide_001.png", Duration: 10},
		{Type: models.EntryTypeImage, URL: "/content/slides/deck1/slide_001.png", Name: "slide_001.png", Duration: 10},
		{Type: models.EntryTypeImage, URL: "/content/slides/deck1/slide_002.png", Name: "slide_002.png", Duration: 10},
	}
	assert.Equal(t, expected, entries)
}

func TestBuild_Deterministic(t *testing.T) {
	f := newFixture(t, &stubProber{})
	f.addVideo("a.mp4")
	f.addDeck("deck", "slide_001.png", "slide_002.png")

	first := f.builder.Build(context.Background())
	second := f.builder.Build(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, Fingerprint(first), Fingerprint(second))
}

func TestBuild_ModeFiltering(t *testing.T) {
	t.Run("video only", func(t *testing.T) {
		f := newFixture(t, &stubProber{})
		f.addVideo("a.mp4")
		f.addDeck("deck", "slide_001.png")
		f.setMode("video")

		entries := f.builder.Build(context.Background())
		require.Len(t, entries, 1)
		assert.Equal(t, models.EntryTypeVideo, entries[0].Type)
	})

	t.Run("presentation only", func(t *testing.T) {
		f := newFixture(t, &stubProber{})
		f.addVideo("a.mp4")
		f.addDeck("deck", "slide_001.png")
		f.setMode("presentation")

		entries := f.builder.Build(context.Background())
		require.Len(t, entries, 1)
		assert.Equal(t, models.EntryTypeImage, entries[0].Type)
	})

	t.Run("selection honors mode", func(t *testing.T) {
		f := newFixture(t, &stubProber{})
		f.addVideo("a.mp4")
		f.addDeck("deck", "slide_001.png")
		f.setMode("video")
		f.setSelection(`["a.mp4", "deck"]`)

		entries := f.builder.Build(context.Background())
		require.Len(t, entries, 1)
		assert.Equal(t, models.EntryTypeVideo, entries[0].Type)
	})
}

func TestBuild_SelectionPrecedence(t *testing.T) {
	f := newFixture(t, &stubProber{})
	f.addVideo("a.mp4")
	f.addVideo("b.mp4")
	f.setSelection(`[{"name": "a.mp4", "repeats": 2}]`)

	entries := f.builder.Build(context.Background())

	require.Len(t, entries, 2, "selection replaces default enumeration entirely")
	for _, entry := range entries {
		assert.Equal(t, "a.mp4", entry.Name)
		assert.Equal(t, models.EntryTypeVideo, entry.Type)
	}
}

func TestBuild_PresentationExpansionWithRepeats(t *testing.T) {
	f := newFixture(t, &stubProber{})
	f.addDeck("deck", "slide_001.png", "slide_002.png")
	f.setSelection(`[{"name": "deck", "repeats": 2}]`)

	entries := f.builder.Build(context.Background())

	require.Len(t, entries, 4)
	names := []string{entries[0].Name, entries[1].Name, entries[2].Name, entries[3].Name}
	assert.Equal(t, []string{"slide_001.png", "slide_002.png", "slide_001.png", "slide_002.png"}, names,
		"repeats wrap the whole deck, not each slide")
}

func TestBuild_SelectionByPresentationFilename(t *testing.T) {
	f := newFixture(t, &stubProber{})
	f.addDeck("quarterly", "slide_001.png")
	f.setSelection(`["quarterly.pptx"]`)

	entries := f.builder.Build(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, "/content/slides/quarterly/slide_001.png", entries[0].URL)
}

func TestBuild_SelectionUnmatchedNamesDropped(t *testing.T) {
	f := newFixture(t, &stubProber{})
	f.addVideo("a.mp4")
	f.setSelection(`["ghost.mp4", "a.mp4", "no_such_deck"]`)

	entries := f.builder.Build(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, "a.mp4", entries[0].Name)
}

func TestBuild_VideoNameFallsBackToDeckUnderPresentationMode(t *testing.T) {
	// A selected video name is resolved against decks when mode blocks the
	// video branch; matching is per-branch, not up front.
	f := newFixture(t, &stubProber{})
	f.addVideo("show.mp4")
	f.addDeck("show", "slide_001.png")
	f.setMode("presentation")
	f.setSelection(`["show.mp4"]`)

	entries := f.builder.Build(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntryTypeImage, entries[0].Type)
	assert.Equal(t, "/content/slides/show/slide_001.png", entries[0].URL)
}

func TestBuild_EmptySelectionFallsBackToDefault(t *testing.T) {
	f := newFixture(t, &stubProber{})
	f.addVideo("a.mp4")
	f.setSelection(`[]`)

	entries := f.builder.Build(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, "a.mp4", entries[0].Name)
}

func TestBuild_NoContent(t *testing.T) {
	f := newFixture(t, &stubProber{})
	assert.Empty(t, f.builder.Build(context.Background()))
	assert.Empty(t, f.builder.BuildWithDurations(context.Background()))
}

func TestBuildWithDurations(t *testing.T) {
	prober := &stubProber{durations: map[string]float64{"a.mp4": 12.5}}
	f := newFixture(t, prober)
	f.addVideo("a.mp4")
	f.addVideo("unprobed.mp4")
	f.addDeck("deck", "slide_001.png")

	entries := f.builder.BuildWithDurations(context.Background())

	require.Len(t, entries, 3)
	assert.Equal(t, 12.5, entries[0].Duration, "probed duration")
	assert.Equal(t, 30.0, entries[1].Duration, "probe failure falls back to default estimate")
	assert.Equal(t, 10.0, entries[2].Duration, "slides use the fixed slide duration")
}

func TestBuild_StatelessVideosOmitDuration(t *testing.T) {
	prober := &stubProber{durations: map[string]float64{"a.mp4": 12.5}}
	f := newFixture(t, prober)
	f.addVideo("a.mp4")

	entries := f.builder.Build(context.Background())
	require.Len(t, entries, 1)
	assert.Zero(t, entries[0].Duration)
}

func TestPresentationStem(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare stem", "deck", "deck"},
		{"single extension", "deck.pptx", "deck"},
		{"double extension keeps inner", "deck.tar.gz", "deck.tar"},
		{"leading dot name", ".hidden", ".hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, presentationStem(tt.input))
		})
	}
}
