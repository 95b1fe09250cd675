package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gamedex/internal/catalog"
	"gamedex/internal/config"
	"gamedex/internal/logging"
)

// Steam app manifests are a flat VDF dialect; the handful of fields we
// need are extracted by pattern rather than a full parser.
var (
	acfAppID      = regexp.MustCompile(`"appid"\s+"(\d+)"`)
	acfName       = regexp.MustCompile(`"name"\s+"([^"]+)"`)
	acfLastPlayed = regexp.MustCompile(`"LastPlayed"\s+"(\d+)"`)
	acfPlaytime   = regexp.MustCompile(`"playtime"\s+"(\d+)"`)
)

// steamToolPatterns identify Steam apps that are runtimes and tooling
// rather than games. Matched case-insensitively against the app name.
var steamToolPatterns = []string{
	"proton",
	"steam linux runtime",
	"steamworks common",
	"steam runtime",
	"redistributable",
	"sdk",
	"dedicated server",
	"tool",
	"hotfix",
}

// SteamCollector scans Steam library directories for app manifests.
type SteamCollector struct {
	libraryPaths []string
}

// NewSteamCollector builds a collector over the configured library
// paths, with ~ and environment variables expanded.
func NewSteamCollector(cfg config.Steam) *SteamCollector {
	paths := make([]string, 0, len(cfg.LibraryPaths))
	for _, p := range cfg.LibraryPaths {
		paths = append(paths, config.ExpandPath(p))
	}
	return &SteamCollector{libraryPaths: paths}
}

// Source implements Collector.
func (c *SteamCollector) Source() string {
	return catalog.SourceSteam
}

// Collect parses every appmanifest_*.acf under the library paths.
func (c *SteamCollector) Collect(_ context.Context) []catalog.Game {
	var games []catalog.Game

	for _, libPath := range c.libraryPaths {
		if _, err := os.Stat(libPath); err != nil {
			logging.Warn("steam library path not found", "path", libPath)
			continue
		}

		manifests, err := filepath.Glob(filepath.Join(libPath, "appmanifest_*.acf"))
		if err != nil {
			logging.Warn("failed to glob steam manifests", "path", libPath, "error", err)
			continue
		}

		for _, manifest := range manifests {
			game, err := parseManifest(manifest)
			if err != nil {
				logging.Warn("skipping unparsable steam manifest", "path", manifest, "error", err)
				continue
			}
			if game == nil {
				continue // tool, runtime, or incomplete entry
			}
			games = append(games, *game)
		}
	}

	return games
}

// parseManifest extracts one game record from an .acf manifest. Returns
// (nil, nil) for entries that are deliberately skipped.
func parseManifest(path string) (*catalog.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(data)

	idMatch := acfAppID.FindStringSubmatch(content)
	if idMatch == nil {
		return nil, fmt.Errorf("no appid field")
	}
	appID := idMatch[1]

	nameMatch := acfName.FindStringSubmatch(content)
	if nameMatch == nil {
		return nil, fmt.Errorf("no name field")
	}
	name := nameMatch[1]

	if isSteamTool(name) {
		return nil, nil
	}

	var lastPlayed int64
	if m := acfLastPlayed.FindStringSubmatch(content); m != nil {
		lastPlayed, _ = strconv.ParseInt(m[1], 10, 64)
	}

	var playtime int64
	if m := acfPlaytime.FindStringSubmatch(content); m != nil {
		playtime, _ = strconv.ParseInt(m[1], 10, 64)
	}

	return &catalog.Game{
		Name:       name,
		Exec:       "steam steam://rungameid/" + appID,
		Category:   catalog.CategorySteam,
		Source:     catalog.SourceSteam,
		LastPlayed: lastPlayed,
		Playtime:   playtime,
		PlatformID: appID,
	}, nil
}

// isSteamTool reports whether a Steam app is a runtime or tool rather
// than a game.
func isSteamTool(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range steamToolPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
