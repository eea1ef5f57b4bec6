package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stwalsh4118/marquee/internal/models"
)

func samplePlaylist() []models.Entry {
	return []models.Entry{
		{Type: models.EntryTypeVideo, URL: "/content/videos/a.mp4", Name: "a.mp4", Duration: 30},
		{Type: models.EntryTypeImage, URL: "/content/slides/deck/slide_001.png", Name: "slide_001.png", Duration: 10},
	}
}

func TestFingerprint_StableForEqualContent(t *testing.T) {
	assert.Equal(t, Fingerprint(samplePlaylist()), Fingerprint(samplePlaylist()))
}

func TestFingerprint_Sensitivity(t *testing.T) {
	base := Fingerprint(samplePlaylist())

	t.Run("order change", func(t *testing.T) {
		entries := samplePlaylist()
		entries[0], entries[1] = entries[1], entries[0]
		assert.NotEqual(t, base, Fingerprint(entries))
	})

	t.Run("name change", func(t *testing.T) {
		entries := samplePlaylist()
		entries[0].Name = "b.mp4"
		assert.NotEqual(t, base, Fingerprint(entries))
	})

	t.Run("url change", func(t *testing.T) {
		entries := samplePlaylist()
		entries[0].URL = "/content/videos/b.mp4"
		assert.NotEqual(t, base, Fingerprint(entries))
	})

	t.Run("duration change", func(t *testing.T) {
		entries := samplePlaylist()
		entries[0].Duration = 31
		assert.NotEqual(t, base, Fingerprint(entries))
	})

	t.Run("added entry", func(t *testing.T) {
		entries := append(samplePlaylist(), models.Entry{
			Type: models.EntryTypeVideo, URL: "/content/videos/c.mp4", Name: "c.mp4", Duration: 5,
		})
		assert.NotEqual(t, base, Fingerprint(entries))
	})
}

func TestFingerprint_EmptyPlaylist(t *testing.T) {
	digest := Fingerprint(nil)
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, Fingerprint([]models.Entry{}))
}

func TestFingerprint_ZeroDurationEqualsOmitted(t *testing.T) {
	// The stateless view leaves video durations unset; zero and absent
	// canonicalize identically.
	withZero := []models.Entry{{Type: models.EntryTypeVideo, URL: "/content/videos/a.mp4", Name: "a.mp4", Duration: 0}}
	without := []models.Entry{{Type: models.EntryTypeVideo, URL: "/content/videos/a.mp4", Name: "a.mp4"}}
	assert.Equal(t, Fingerprint(without), Fingerprint(withZero))
}
