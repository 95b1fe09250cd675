package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"gamedex/internal/catalog"
	"gamedex/internal/config"
	"gamedex/internal/logging"
)

// heroicGame is one entry in a Heroic library cache file.
type heroicGame struct {
	AppName     string `json:"app_name"`
	Title       string `json:"title"`
	IsInstalled bool   `json:"is_installed"`
	ArtCover    string `json:"art_cover"`
	ArtSquare   string `json:"art_square"`
}

// heroicLibrary is the cache file envelope. Some Heroic versions write a
// bare array instead; decodeHeroicLibrary handles both.
type heroicLibrary struct {
	Library []heroicGame `json:"library"`
	Games   []heroicGame `json:"games"`
}

// storeLibraries maps a store cache file to the runner that launches it.
var storeLibraries = []struct {
	file   string
	runner string
	source string
}{
	{"legendary_library.json", "legendary", catalog.SourceEpic},
	{"gog_library.json", "gog", catalog.SourceGOG},
	{"nile_library.json", "nile", catalog.SourceAmazon},
}

// HeroicCollector scans Heroic Games Launcher config directories for
// installed Epic, GOG, Amazon, and sideloaded games.
type HeroicCollector struct {
	configPaths []string
	cfg         config.Heroic
}

// NewHeroicCollector builds a collector over the configured Heroic dirs.
func NewHeroicCollector(cfg config.Heroic) *HeroicCollector {
	paths := make([]string, 0, len(cfg.ConfigPaths))
	for _, p := range cfg.ConfigPaths {
		paths = append(paths, config.ExpandPath(p))
	}
	return &HeroicCollector{configPaths: paths, cfg: cfg}
}

// Source implements Collector.
func (c *HeroicCollector) Source() string {
	return catalog.SourceHeroic
}

// Collect reads every enabled store cache plus the sideload library.
func (c *HeroicCollector) Collect(_ context.Context) []catalog.Game {
	var games []catalog.Game

	for _, heroicPath := range c.configPaths {
		if _, err := os.Stat(heroicPath); err != nil {
			continue
		}

		for _, lib := range storeLibraries {
			if !c.storeEnabled(lib.source) {
				continue
			}

			libPath := filepath.Join(heroicPath, "store_cache", lib.file)
			entries, err := decodeHeroicLibrary(libPath)
			if err != nil {
				if !os.IsNotExist(err) {
					logging.Warn("skipping corrupt heroic library", "path", libPath, "error", err)
				}
				continue
			}

			for _, entry := range entries {
				if game, ok := heroicRecord(entry, lib.source, lib.source, "heroic://launch/"+lib.source+"/"); ok {
					games = append(games, game)
				}
			}
		}

		if c.cfg.ScanSideload {
			sideloadPath := filepath.Join(heroicPath, "sideload_apps", "library.json")
			entries, err := decodeHeroicLibrary(sideloadPath)
			if err != nil {
				if !os.IsNotExist(err) {
					logging.Warn("skipping corrupt heroic sideload library", "path", sideloadPath, "error", err)
				}
				continue
			}

			for _, entry := range entries {
				if game, ok := heroicRecord(entry, catalog.CategorySideload, catalog.SourceHeroic, "heroic://launch/sideload/"); ok {
					games = append(games, game)
				}
			}
		}
	}

	return games
}

func (c *HeroicCollector) storeEnabled(source string) bool {
	switch source {
	case catalog.SourceEpic:
		return c.cfg.ScanEpic
	case catalog.SourceGOG:
		return c.cfg.ScanGOG
	case catalog.SourceAmazon:
		return c.cfg.ScanAmazon
	}
	return false
}

// decodeHeroicLibrary reads a cache file, accepting both the object
// envelope and the bare-array format.
func decodeHeroicLibrary(path string) ([]heroicGame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var bare []heroicGame
		if err := json.Unmarshal(trimmed, &bare); err != nil {
			return nil, err
		}
		return bare, nil
	}

	var envelope heroicLibrary
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	if envelope.Library != nil {
		return envelope.Library, nil
	}
	return envelope.Games, nil
}

// heroicRecord converts a cache entry into a catalog record; only
// installed entries qualify.
func heroicRecord(entry heroicGame, category, source, launchPrefix string) (catalog.Game, bool) {
	if !entry.IsInstalled || entry.AppName == "" {
		return catalog.Game{}, false
	}

	title := entry.Title
	if title == "" {
		title = entry.AppName
	}

	image := entry.ArtCover
	if image == "" {
		image = entry.ArtSquare
	}

	return catalog.Game{
		Name:       title,
		Exec:       launchPrefix + entry.AppName,
		Image:      image,
		Category:   category,
		Source:     source,
		PlatformID: entry.AppName,
	}, true
}
