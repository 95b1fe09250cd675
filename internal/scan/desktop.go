package scan

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"gamedex/internal/catalog"
	"gamedex/internal/config"
	"gamedex/internal/logging"
)

// desktopEntry holds the fields we read from a .desktop file.
type desktopEntry struct {
	Name       string
	Exec       string
	Icon       string
	Type       string
	Categories string
	NoDisplay  bool
}

// DesktopCollector scans freedesktop application directories for
// .desktop files whose Categories include Game.
type DesktopCollector struct {
	paths []string
}

// NewDesktopCollector builds a collector over the configured
// application directories.
func NewDesktopCollector(cfg config.Desktop) *DesktopCollector {
	paths := make([]string, 0, len(cfg.Paths))
	for _, p := range cfg.Paths {
		paths = append(paths, config.ExpandPath(p))
	}
	return &DesktopCollector{paths: paths}
}

func (c *DesktopCollector) Source() string {
	return catalog.SourceDesktop
}

// Collect parses every .desktop file under the configured directories.
// Hidden entries, non-applications and entries without a Game category
// are dropped here so later stages only see launchable games.
func (c *DesktopCollector) Collect(_ context.Context) []catalog.Game {
	var games []catalog.Game
	for _, dir := range c.paths {
		files, err := filepath.Glob(filepath.Join(dir, "*.desktop"))
		if err != nil {
			continue
		}
		for _, file := range files {
			entry, err := parseDesktopFile(file)
			if err != nil {
				logging.Debug("skipping unreadable desktop entry", "path", file, "error", err)
				continue
			}
			game, ok := desktopGame(entry)
			if !ok {
				continue
			}
			games = append(games, game)
		}
	}
	return games
}

// desktopGame converts a parsed entry into a catalog record, reporting
// false for entries that should not appear in a game catalog.
func desktopGame(entry desktopEntry) (catalog.Game, bool) {
	if entry.NoDisplay {
		return catalog.Game{}, false
	}
	if entry.Type != "" && entry.Type != "Application" {
		return catalog.Game{}, false
	}
	if !hasGameCategory(entry.Categories) {
		return catalog.Game{}, false
	}
	if entry.Name == "" || entry.Exec == "" {
		return catalog.Game{}, false
	}

	game := catalog.Game{
		Name:     entry.Name,
		Exec:     stripFieldCodes(entry.Exec),
		Category: catalog.CategoryDesktop,
		Source:   catalog.SourceDesktop,
	}
	// Icons given by theme name rather than path are left for the UI
	// to resolve; only concrete files are carried as images.
	if filepath.IsAbs(entry.Icon) {
		if _, err := os.Stat(entry.Icon); err == nil {
			game.Image = entry.Icon
		}
	}
	return game, true
}

func hasGameCategory(categories string) bool {
	for _, c := range strings.Split(categories, ";") {
		if c == "Game" {
			return true
		}
	}
	return false
}

// stripFieldCodes removes desktop entry spec placeholders (%U, %f, ...)
// from an Exec line.
func stripFieldCodes(exec string) string {
	fields := strings.Fields(exec)
	kept := fields[:0]
	for _, f := range fields {
		if len(f) == 2 && f[0] == '%' {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// parseDesktopFile reads the [Desktop Entry] group of a .desktop file.
// Localized keys and other groups are ignored.
func parseDesktopFile(path string) (desktopEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return desktopEntry{}, err
	}
	defer func() { _ = f.Close() }()

	var entry desktopEntry
	inEntry := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "Name":
			entry.Name = value
		case "Exec":
			entry.Exec = value
		case "Icon":
			entry.Icon = value
		case "Type":
			entry.Type = value
		case "Categories":
			entry.Categories = value
		case "NoDisplay":
			entry.NoDisplay = value == "true"
		}
	}
	if err := scanner.Err(); err != nil {
		return desktopEntry{}, err
	}
	return entry, nil
}
