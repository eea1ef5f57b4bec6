package playlist

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/stwalsh4118/marquee/internal/models"
)

// Fingerprint returns a stable hex digest over the playlist's canonical
// serialization. Each entry is reduced to a map before marshaling so field
// order can never leak into the digest; encoding/json writes map keys in
// sorted order. Entries without a duration omit the key entirely, matching
// the wire shape. The digest changes on any difference in composition,
// order, name, url, or duration; it is change detection, not integrity.
func Fingerprint(entries []models.Entry) string {
	canonical := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		m := map[string]any{
			"type": string(entry.Type),
			"url":  entry.URL,
			"name": entry.Name,
		}
		if entry.Duration > 0 {
			m["duration"] = entry.Duration
		}
		canonical = append(canonical, m)
	}

	// Marshal cannot fail here: the maps hold only strings and floats
	data, _ := json.Marshal(canonical)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
