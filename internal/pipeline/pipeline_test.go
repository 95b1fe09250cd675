package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamedex/internal/catalog"
	"gamedex/internal/config"
)

// testConfig loads a config anchored in a temp dir (so games.toml
// resolves next to it) with every source disabled and no cover
// fetching; tests enable pieces selectively.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, nil, 0o644))
	cfg, err := config.LoadFrom(configPath)
	require.NoError(t, err)

	cfg.Steam.Enabled = false
	cfg.Steam.FetchCovers = false
	cfg.Heroic.Enabled = false
	cfg.Lutris.Enabled = false
	cfg.Desktop.Enabled = false
	cfg.Appearance.UseWallust = false
	cfg.Cache.Path = ""
	return cfg
}

func writeSteamLibrary(t *testing.T, cfg *config.Config) {
	t.Helper()
	dir := t.TempDir()
	manifest := `"AppState"
{
	"appid"		"400"
	"name"		"Portal"
	"LastPlayed"		"1700000000"
	"playtime"		"320"
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "appmanifest_400.acf"), []byte(manifest), 0o644))
	cfg.Steam.Enabled = true
	cfg.Steam.LibraryPaths = []string{dir}
	cfg.Steam.UserdataPath = filepath.Join(dir, "userdata")
}

func TestPipeline_Run_ConfigEntriesOnly(t *testing.T) {
	cfg := testConfig(t)
	cfg.Entries = []config.Entry{
		{Title: "RetroArch", LaunchCommand: "retroarch"},
	}

	snap := New(cfg).Run(context.Background())

	require.Len(t, snap.Games, 1)
	assert.Equal(t, "RetroArch", snap.Games[0].Name)
	assert.Equal(t, catalog.SourceConfig, snap.Games[0].Source)
	assert.NotNil(t, snap.Colors)
	assert.Same(t, cfg, snap.Config)
}

func TestPipeline_Run_ManualOverridesSteam(t *testing.T) {
	cfg := testConfig(t)
	writeSteamLibrary(t, cfg)

	require.NoError(t, os.WriteFile(cfg.GamesFile(), []byte(`
[[games]]
name = "Portal"
exec = "custom-portal-launcher"
favorite = true
`), 0o644))

	snap := New(cfg).Run(context.Background())

	require.Len(t, snap.Games, 1)
	g := snap.Games[0]
	assert.Equal(t, "Portal", g.Name)
	assert.Equal(t, "custom-portal-launcher", g.Exec)
	assert.True(t, g.Favorite)
	assert.Equal(t, catalog.SourceManual, g.Source)
	// Fields the manual entry leaves unset keep the collector values.
	assert.Equal(t, int64(1700000000), g.LastPlayed)
	assert.Equal(t, "400", g.PlatformID)
}

func TestPipeline_Run_DesktopOnlyFillsGaps(t *testing.T) {
	cfg := testConfig(t)
	writeSteamLibrary(t, cfg)

	desktopDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(desktopDir, "portal.desktop"), []byte(`[Desktop Entry]
Type=Application
Name=Portal
Exec=portal-from-desktop
Categories=Game;
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(desktopDir, "supertux.desktop"), []byte(`[Desktop Entry]
Type=Application
Name=SuperTux
Exec=supertux2
Categories=Game;
`), 0o644))
	cfg.Desktop.Enabled = true
	cfg.Desktop.Paths = []string{desktopDir}

	snap := New(cfg).Run(context.Background())

	require.Len(t, snap.Games, 2)
	byName := map[string]catalog.Game{}
	for _, g := range snap.Games {
		byName[g.Name] = g
	}
	// Steam already owns Portal, so the desktop duplicate is discarded.
	assert.Equal(t, catalog.SourceSteam, byName["Portal"].Source)
	assert.Equal(t, catalog.SourceDesktop, byName["SuperTux"].Source)
}

func TestPipeline_Run_SortsFavoritesFirst(t *testing.T) {
	cfg := testConfig(t)
	cfg.Entries = []config.Entry{
		{Title: "Cherry", LaunchCommand: "c"},
		{Title: "Banana", LaunchCommand: "b"},
		{Title: "Apple", LaunchCommand: "a"},
	}
	require.NoError(t, os.WriteFile(cfg.GamesFile(), []byte(`
[[games]]
name = "Banana"
favorite = true

[[games]]
name = "Apple"
favorite = true
`), 0o644))

	snap := New(cfg).Run(context.Background())

	require.Len(t, snap.Games, 3)
	assert.Equal(t, "Apple", snap.Games[0].Name)
	assert.Equal(t, "Banana", snap.Games[1].Name)
	assert.Equal(t, "Cherry", snap.Games[2].Name)
}

func TestPipeline_Run_AppliesFilters(t *testing.T) {
	cfg := testConfig(t)
	cfg.Entries = []config.Entry{
		{Title: "Keep Me", LaunchCommand: "keep"},
		{Title: "Proton Helper", LaunchCommand: "helper"},
	}
	cfg.Filter.ExcludeKeywords = []string{"proton"}

	snap := New(cfg).Run(context.Background())

	require.Len(t, snap.Games, 1)
	assert.Equal(t, "Keep Me", snap.Games[0].Name)
}

func TestPipeline_Run_LoadsPalette(t *testing.T) {
	cfg := testConfig(t)
	walPath := filepath.Join(t.TempDir(), "wal.json")
	require.NoError(t, os.WriteFile(walPath, []byte(`{
		"special": {"background": "#000000"},
		"colors": {"color0": "#111111"}
	}`), 0o644))
	cfg.Appearance.UseWallust = true
	cfg.Appearance.WallustPath = walPath

	snap := New(cfg).Run(context.Background())

	assert.Equal(t, "#000000", snap.Colors["background"])
	assert.Equal(t, "#111111", snap.Colors["color0"])
}
