// Package config loads gamedex configuration.
//
// Configuration lives in a single file with nested per-source sections,
// found via a fixed search order or the GAMEDEX_CONFIG environment
// variable. Both TOML and YAML are accepted, selected by file extension.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Steam configures the native Steam manifest collector and the non-Steam
// shortcut registry collector.
type Steam struct {
	Enabled      bool     `toml:"enabled" yaml:"enabled" json:"enabled"`
	LibraryPaths []string `toml:"library_paths" yaml:"library_paths" json:"library_paths"`
	UserdataPath string   `toml:"userdata_path" yaml:"userdata_path" json:"userdata_path"`
	FetchCovers  bool     `toml:"fetch_covers" yaml:"fetch_covers" json:"fetch_covers"`
}

// Heroic configures the Heroic Games Launcher collector.
type Heroic struct {
	Enabled      bool     `toml:"enabled" yaml:"enabled" json:"enabled"`
	ConfigPaths  []string `toml:"config_paths" yaml:"config_paths" json:"config_paths"`
	ScanEpic     bool     `toml:"scan_epic" yaml:"scan_epic" json:"scan_epic"`
	ScanGOG      bool     `toml:"scan_gog" yaml:"scan_gog" json:"scan_gog"`
	ScanAmazon   bool     `toml:"scan_amazon" yaml:"scan_amazon" json:"scan_amazon"`
	ScanSideload bool     `toml:"scan_sideload" yaml:"scan_sideload" json:"scan_sideload"`
}

// Lutris configures the Lutris library collector.
type Lutris struct {
	Enabled bool   `toml:"enabled" yaml:"enabled" json:"enabled"`
	DBPath  string `toml:"db_path" yaml:"db_path" json:"db_path"`
}

// Desktop configures the desktop entry collector.
type Desktop struct {
	Enabled bool     `toml:"enabled" yaml:"enabled" json:"enabled"`
	Paths   []string `toml:"paths" yaml:"paths" json:"paths"`
}

// Entry is a launcher entry declared directly in the config file.
type Entry struct {
	Title         string `toml:"title" yaml:"title" json:"title"`
	LaunchCommand string `toml:"launch_command" yaml:"launch_command" json:"launch_command"`
	PathBoxArt    string `toml:"path_box_art" yaml:"path_box_art" json:"path_box_art"`
}

// GridDB configures the SteamGridDB cover service.
type GridDB struct {
	Enabled       bool     `toml:"enabled" yaml:"enabled" json:"enabled"`
	APIKey        string   `toml:"api_key" yaml:"api_key" json:"-"`
	BaseURL       string   `toml:"base_url" yaml:"base_url" json:"base_url"`
	Styles        []string `toml:"styles" yaml:"styles" json:"styles"`
	Types         []string `toml:"types" yaml:"types" json:"types"`
	FallbackToCDN bool     `toml:"fallback_to_cdn" yaml:"fallback_to_cdn" json:"fallback_to_cdn"`
}

// Cache configures the cover cache store.
type Cache struct {
	Path     string `toml:"path" yaml:"path" json:"path"`
	TTLHours int    `toml:"ttl_hours" yaml:"ttl_hours" json:"ttl_hours"`
}

// Fetch configures the concurrent cover resolution stage.
type Fetch struct {
	Workers        int `toml:"workers" yaml:"workers" json:"workers"`
	TimeoutSeconds int `toml:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Filter configures catalog filtering rules.
type Filter struct {
	GamesOnly         bool     `toml:"games_only" yaml:"games_only" json:"games_only"`
	ExcludeCategories []string `toml:"exclude_categories" yaml:"exclude_categories" json:"exclude_categories"`
	ExcludeKeywords   []string `toml:"exclude_keywords" yaml:"exclude_keywords" json:"exclude_keywords"`
	ToolKeywords      []string `toml:"tool_keywords" yaml:"tool_keywords" json:"tool_keywords"`
}

// Behavior configures catalog ordering.
type Behavior struct {
	SortBy             string `toml:"sort_by" yaml:"sort_by" json:"sort_by"` // "name", "recent", "playtime"
	ShowFavoritesFirst bool   `toml:"show_favorites_first" yaml:"show_favorites_first" json:"show_favorites_first"`
}

// Appearance configures the palette passthrough for the UI.
type Appearance struct {
	UseWallust  bool   `toml:"use_wallust" yaml:"use_wallust" json:"use_wallust"`
	WallustPath string `toml:"wallust_path" yaml:"wallust_path" json:"wallust_path"`
}

// Logging configures log output.
type Logging struct {
	Format string `toml:"format" yaml:"format" json:"format"` // "json" or "text"
	Level  string `toml:"level" yaml:"level" json:"level"`    // "debug", "info", "warn", "error"
}

// Config holds application configuration.
type Config struct {
	Steam      Steam      `toml:"steam" yaml:"steam" json:"steam"`
	Heroic     Heroic     `toml:"heroic" yaml:"heroic" json:"heroic"`
	Lutris     Lutris     `toml:"lutris" yaml:"lutris" json:"lutris"`
	Desktop    Desktop    `toml:"desktop" yaml:"desktop" json:"desktop"`
	BoxArtDir  string     `toml:"box_art_dir" yaml:"box_art_dir" json:"box_art_dir"`
	Entries    []Entry    `toml:"entries" yaml:"entries" json:"entries"`
	GridDB     GridDB     `toml:"steamgriddb" yaml:"steamgriddb" json:"steamgriddb"`
	Cache      Cache      `toml:"cache" yaml:"cache" json:"cache"`
	Fetch      Fetch      `toml:"fetch" yaml:"fetch" json:"fetch"`
	Filter     Filter     `toml:"filter" yaml:"filter" json:"filter"`
	Behavior   Behavior   `toml:"behavior" yaml:"behavior" json:"behavior"`
	Appearance Appearance `toml:"appearance" yaml:"appearance" json:"appearance"`
	Logging    Logging    `toml:"logging" yaml:"logging" json:"logging"`

	// path is the file the config was loaded from, empty for defaults.
	path string
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Steam: Steam{
			Enabled:      true,
			LibraryPaths: []string{"~/.local/share/Steam/steamapps"},
			UserdataPath: "~/.local/share/Steam/userdata",
			FetchCovers:  true,
		},
		Heroic: Heroic{
			Enabled:      true,
			ConfigPaths:  []string{"~/.config/heroic"},
			ScanEpic:     true,
			ScanGOG:      true,
			ScanAmazon:   true,
			ScanSideload: true,
		},
		Lutris: Lutris{
			Enabled: true,
			DBPath:  "~/.local/share/lutris/pga.db",
		},
		Desktop: Desktop{
			Enabled: false,
			Paths:   []string{"~/.local/share/applications"},
		},
		GridDB: GridDB{
			Enabled:       false,
			BaseURL:       "https://www.steamgriddb.com/api/v2",
			Styles:        []string{"alternate", "official"},
			Types:         []string{"static"},
			FallbackToCDN: true,
		},
		Cache: Cache{
			Path:     "~/.cache/gamedex/covers.json",
			TTLHours: 168,
		},
		Fetch: Fetch{
			Workers:        10,
			TimeoutSeconds: 3,
		},
		Filter: Filter{
			ToolKeywords: []string{
				"proton",
				"steam linux runtime",
				"steamworks common",
				"steam runtime",
				"redistributable",
				"sdk",
				"dedicated server",
				"compatibility tool",
				"hotfix",
			},
		},
		Behavior: Behavior{
			SortBy:             "name",
			ShowFavoritesFirst: true,
		},
		Appearance: Appearance{
			UseWallust:  true,
			WallustPath: "~/.cache/wal/wal.json",
		},
		Logging: Logging{
			Format: "text",
			Level:  "info",
		},
	}
}

// configPaths returns the list of paths to search for the config file.
func configPaths() []string {
	paths := []string{
		".gamedex.toml",
		".gamedex.yaml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gamedex", "config.toml"),
			filepath.Join(home, ".config", "gamedex", "config.yaml"),
			filepath.Join(home, ".config", "quickshell", "game-launcher", "config.toml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: env GAMEDEX_CONFIG > search paths > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if envPath := os.Getenv("GAMEDEX_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadFrom loads configuration from an explicit file path, bypassing
// the search list.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.loadFromFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	c.path = path
	return nil
}

func (c *Config) applyEnvOverrides() {
	if cachePath := os.Getenv("GAMEDEX_CACHE"); cachePath != "" {
		c.Cache.Path = cachePath
	}
	if key := os.Getenv("SGDB_API_KEY"); key != "" {
		c.GridDB.APIKey = key
		c.GridDB.Enabled = true
	}
}

// Path returns the file the configuration was loaded from, or "" when
// running on defaults.
func (c *Config) Path() string {
	return c.path
}

// GamesFile returns the path of the manual games declaration file, a
// sibling of the config file.
func (c *Config) GamesFile() string {
	if c.path != "" {
		return filepath.Join(filepath.Dir(c.path), "games.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gamedex", "games.toml")
}

// GetWorkers returns the fetch worker count, applying defaults.
func (c *Config) GetWorkers() int {
	if c.Fetch.Workers > 0 {
		return c.Fetch.Workers
	}
	return 10
}

// GetFetchTimeout returns the per-request timeout in seconds.
func (c *Config) GetFetchTimeout() int {
	if c.Fetch.TimeoutSeconds > 0 {
		return c.Fetch.TimeoutSeconds
	}
	return 3
}

// GetCacheTTLHours returns the cover cache TTL, applying defaults.
func (c *Config) GetCacheTTLHours() int {
	if c.Cache.TTLHours > 0 {
		return c.Cache.TTLHours
	}
	return 168
}

// ExpandPath expands ~ and environment variables in a filesystem path.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
