package timeline

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/marquee/internal/models"
)

func TestAnchor_FirstSyncSetsEpoch(t *testing.T) {
	anchor := NewAnchor()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := twoItemPlaylist()

	committed, startTime, changed := anchor.Sync("fp-1", entries, now)

	assert.True(t, changed)
	assert.Equal(t, now, startTime)
	assert.Equal(t, entries, committed)
}

func TestAnchor_SameFingerprintKeepsEpoch(t *testing.T) {
	anchor := NewAnchor()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := twoItemPlaylist()
	anchor.Sync("fp-1", first, t0)

	// A later caller with the same fingerprint adopts the stored epoch,
	// even if it rebuilt its own copy of the playlist.
	later := t0.Add(90 * time.Second)
	rebuilt := twoItemPlaylist()

	committed, startTime, changed := anchor.Sync("fp-1", rebuilt, later)

	assert.False(t, changed)
	assert.Equal(t, t0, startTime)
	assert.Equal(t, first, committed)
}

func TestAnchor_NewFingerprintResets(t *testing.T) {
	anchor := NewAnchor()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	anchor.Sync("fp-1", twoItemPlaylist(), t0)

	t1 := t0.Add(5 * time.Minute)
	grown := append(twoItemPlaylist(), testEntry("c.mp4", 15))

	committed, startTime, changed := anchor.Sync("fp-2", grown, t1)

	assert.True(t, changed)
	assert.Equal(t, t1, startTime)
	assert.Equal(t, grown, committed)

	// The new epoch sticks for subsequent callers.
	_, startTime, changed = anchor.Sync("fp-2", grown, t1.Add(time.Second))
	assert.False(t, changed)
	assert.Equal(t, t1, startTime)
}

func TestAnchor_ConcurrentSyncConverges(t *testing.T) {
	anchor := NewAnchor()
	entries := twoItemPlaylist()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	const workers = 32

	type result struct {
		startTime time.Time
		changed   bool
	}

	results := make([]result, workers)
	var wg sync.WaitGroup
	wg.Add(workers)

	// Every worker observes the same fingerprint transition at a slightly
	// different local time. Exactly one should win the reset; the rest
	// must adopt the winner's epoch.
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			now := base.Add(time.Duration(i) * time.Millisecond)
			_, startTime, changed := anchor.Sync("fp-1", entries, now)
			results[i] = result{startTime: startTime, changed: changed}
		}(i)
	}
	wg.Wait()

	resets := 0
	for _, r := range results {
		if r.changed {
			resets++
		}
	}
	require.Equal(t, 1, resets)

	epoch := results[0].startTime
	for i, r := range results {
		assert.Equal(t, epoch, r.startTime, fmt.Sprintf("worker %d diverged", i))
	}
}

func TestAnchor_InterleavedFingerprints(t *testing.T) {
	anchor := NewAnchor()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	playlistA := twoItemPlaylist()
	playlistB := []models.Entry{testEntry("solo.mp4", 45)}

	anchor.Sync("fp-a", playlistA, t0)
	anchor.Sync("fp-b", playlistB, t0.Add(time.Minute))

	// Flipping back to a previously seen fingerprint is still a change:
	// only the latest committed fingerprint is remembered.
	committed, startTime, changed := anchor.Sync("fp-a", playlistA, t0.Add(2*time.Minute))

	assert.True(t, changed)
	assert.Equal(t, t0.Add(2*time.Minute), startTime)
	assert.Equal(t, playlistA, committed)
}
