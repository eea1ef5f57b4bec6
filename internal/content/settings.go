package content

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/stwalsh4118/marquee/internal/logger"
	"github.com/stwalsh4118/marquee/internal/models"
)

// Settings reads the sidecar files an operator (or management tool) drops
// next to the content: the display mode, the optional playlist selection,
// and pending client commands. Every read is lenient. A missing or
// malformed file falls back to its default so a bad edit can never take
// the players down.
type Settings struct {
	modeFile      string
	selectionFile string
	commandsDir   string
}

// NewSettings creates a settings reader over the given sidecar paths.
func NewSettings(modeFile, selectionFile, commandsDir string) *Settings {
	return &Settings{
		modeFile:      modeFile,
		selectionFile: selectionFile,
		commandsDir:   commandsDir,
	}
}

// Mode returns the active display mode. Defaults to ModeBoth when the mode
// file is missing, unreadable, or malformed.
func (s *Settings) Mode() models.Mode {
	data, err := os.ReadFile(s.modeFile)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn().
				Str("file", s.modeFile).
				Err(err).
				Msg("Failed to read mode file")
		}
		return models.ModeBoth
	}

	var cfg struct {
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		logger.Log.Warn().
			Str("file", s.modeFile).
			Err(err).
			Msg("Failed to parse mode file")
		return models.ModeBoth
	}
	return models.ParseMode(cfg.Mode)
}

// Selection returns the explicit playlist selection, or nil when no usable
// selection exists. The file is a JSON array whose entries are either bare
// name strings or objects carrying a name (under "name" or "filename") and
// an optional repeat count. Entries that yield no name are dropped.
func (s *Settings) Selection() []models.SelectionItem {
	data, err := os.ReadFile(s.selectionFile)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn().
				Str("file", s.selectionFile).
				Err(err).
				Msg("Failed to read selection file")
		}
		return nil
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Log.Warn().
			Str("file", s.selectionFile).
			Err(err).
			Msg("Failed to parse selection file")
		return nil
	}

	var items []models.SelectionItem
	for _, entry := range raw {
		switch v := entry.(type) {
		case string:
			if v == "" {
				continue
			}
			items = append(items, models.SelectionItem{Name: v, Repeats: 1})
		case map[string]any:
			name := stringField(v, "name")
			if name == "" {
				name = stringField(v, "filename")
			}
			if name == "" {
				continue
			}
			items = append(items, models.SelectionItem{
				Name:    name,
				Repeats: coerceRepeats(v["repeats"]),
			})
		}
	}
	return items
}

// Command returns the pending command payload for the named client, nil
// when no command file exists. An unparseable file yields an empty object
// so clients see a command they can safely ignore. The file is never
// deleted here: other connected clients still need to read it, and they
// deduplicate on the timestamp inside the payload.
func (s *Settings) Command(client string) any {
	path := filepath.Join(s.commandsDir, client+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn().
				Str("file", path).
				Err(err).
				Msg("Failed to read command file")
		}
		return nil
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Log.Warn().
			Str("file", path).
			Err(err).
			Msg("Failed to parse command file")
		return map[string]any{}
	}
	return payload
}

// stringField extracts a non-empty string value from a decoded JSON object.
func stringField(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

// coerceRepeats normalizes a decoded JSON repeat count to an int >= 1.
func coerceRepeats(v any) int {
	repeats := 1
	switch n := v.(type) {
	case float64:
		repeats = int(n)
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			repeats = parsed
		}
	}
	if repeats < 1 {
		return 1
	}
	return repeats
}
