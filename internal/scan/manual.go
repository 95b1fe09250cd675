package scan

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"gamedex/internal/catalog"
	"gamedex/internal/config"
	"gamedex/internal/logging"
)

// ConfigEntriesCollector exposes the launcher entries declared inline
// in the config file as catalog records.
type ConfigEntriesCollector struct {
	boxArtDir string
	entries   []config.Entry
}

// NewConfigEntriesCollector builds a collector over the config's
// [[entries]] table.
func NewConfigEntriesCollector(cfg *config.Config) *ConfigEntriesCollector {
	return &ConfigEntriesCollector{
		boxArtDir: config.ExpandPath(cfg.BoxArtDir),
		entries:   cfg.Entries,
	}
}

func (c *ConfigEntriesCollector) Source() string {
	return catalog.SourceConfig
}

func (c *ConfigEntriesCollector) Collect(_ context.Context) []catalog.Game {
	games := make([]catalog.Game, 0, len(c.entries))
	for _, entry := range c.entries {
		if entry.Title == "" {
			continue
		}
		games = append(games, catalog.Game{
			Name:     entry.Title,
			Exec:     entry.LaunchCommand,
			Image:    c.boxArtPath(entry.PathBoxArt),
			Category: catalog.CategoryLauncher,
			Source:   catalog.SourceConfig,
		})
	}
	return games
}

// boxArtPath resolves an entry's box art relative to the configured box
// art directory, falling back to treating it as a standalone path.
func (c *ConfigEntriesCollector) boxArtPath(art string) string {
	if art == "" {
		return ""
	}
	if c.boxArtDir != "" {
		return filepath.Join(c.boxArtDir, art)
	}
	return config.ExpandPath(art)
}

// manualGame is one [[games]] entry in the user's games.toml.
type manualGame struct {
	Name       string `toml:"name"`
	Exec       string `toml:"exec"`
	Image      string `toml:"image"`
	Category   string `toml:"category"`
	Favorite   bool   `toml:"favorite"`
	LastPlayed int64  `toml:"last_played"`
	Playtime   int64  `toml:"playtime"`
}

type manualFile struct {
	Games []manualGame `toml:"games"`
}

// ManualCollector reads user-declared games from the games.toml file
// next to the config. Manual entries carry the highest merge priority.
type ManualCollector struct {
	path string
}

// NewManualCollector builds a collector for the given games.toml path.
func NewManualCollector(path string) *ManualCollector {
	return &ManualCollector{path: path}
}

func (c *ManualCollector) Source() string {
	return catalog.SourceManual
}

func (c *ManualCollector) Collect(_ context.Context) []catalog.Game {
	if c.path == "" {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("failed to read manual games file", "path", c.path, "error", err)
		}
		return nil
	}

	var file manualFile
	if err := toml.Unmarshal(data, &file); err != nil {
		logging.Warn("failed to parse manual games file", "path", c.path, "error", err)
		return nil
	}

	games := make([]catalog.Game, 0, len(file.Games))
	for _, g := range file.Games {
		if g.Name == "" {
			continue
		}
		games = append(games, catalog.Game{
			Name:       g.Name,
			Exec:       g.Exec,
			Image:      config.ExpandPath(g.Image),
			Category:   g.Category,
			Favorite:   g.Favorite,
			Source:     catalog.SourceManual,
			LastPlayed: g.LastPlayed,
			Playtime:   g.Playtime,
		})
	}
	return games
}
