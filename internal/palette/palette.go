// Package palette loads terminal color schemes generated by wallust or
// pywal so the catalog output can carry them through to a UI.
package palette

import (
	"encoding/json"
	"os"

	"gamedex/internal/config"
	"gamedex/internal/logging"
)

// walFile mirrors the wal.json cache layout: a "special" block with
// background/foreground/cursor and a "colors" block with color0-color15.
type walFile struct {
	Special map[string]string `json:"special"`
	Colors  map[string]string `json:"colors"`
}

// Load reads the color cache at path and flattens both blocks into a
// single name→hex map. Errors yield an empty palette; colors are
// cosmetic and never fail a run.
func Load(path string) map[string]string {
	colors := make(map[string]string)

	expanded := config.ExpandPath(path)
	data, err := os.ReadFile(expanded)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("failed to read color cache", "path", expanded, "error", err)
		}
		return colors
	}

	var wal walFile
	if err := json.Unmarshal(data, &wal); err != nil {
		logging.Warn("failed to parse color cache", "path", expanded, "error", err)
		return colors
	}

	for k, v := range wal.Special {
		colors[k] = v
	}
	for k, v := range wal.Colors {
		colors[k] = v
	}
	return colors
}
