package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig writes a config that disables every scanner except
// inline entries, so commands run hermetically.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[steam]
enabled = false
fetch_covers = false

[heroic]
enabled = false

[lutris]
enabled = false

[appearance]
use_wallust = false

[cache]
path = ""

[[entries]]
title = "RetroArch"
launch_command = "retroarch"
`), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	app := newAppContext()
	cmd := newRootCommand(app)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	require.NoError(t, cmd.Execute())
	app.shutdown()
	return out.String()
}

func TestListCommand_EmitsJSON(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out := runCommand(t, "--config", cfgPath, "list")

	var snap struct {
		Games []struct {
			Name   string `json:"name"`
			Exec   string `json:"exec"`
			Source string `json:"source"`
		} `json:"games"`
		Colors map[string]string `json:"colors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &snap))

	require.Len(t, snap.Games, 1)
	assert.Equal(t, "RetroArch", snap.Games[0].Name)
	assert.Equal(t, "retroarch", snap.Games[0].Exec)
	assert.Equal(t, "config", snap.Games[0].Source)
	assert.NotNil(t, snap.Colors)
}

func TestGamesCommand_RendersTable(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out := runCommand(t, "--config", cfgPath, "games")

	assert.Contains(t, out, "RetroArch")
	assert.Contains(t, out, "1 games")
}

func TestGamesCommand_SourceFilter(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out := runCommand(t, "--config", cfgPath, "games", "--source", "steam")

	assert.NotContains(t, out, "RetroArch")
	assert.Contains(t, out, "0 games")
}

func TestListCommand_MetricsFlag(t *testing.T) {
	cfgPath := writeTestConfig(t)

	app := newAppContext()
	cmd := newRootCommand(app)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--config", cfgPath, "--metrics", "list"})

	require.NoError(t, cmd.Execute())
	app.shutdown()

	// stdout stays pure JSON; the exposition dump lands on stderr.
	var snap map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	assert.Contains(t, errOut.String(), "gamedex_games_total")
	assert.Contains(t, errOut.String(), "gamedex_scan_duration_seconds")
}

func TestCacheStatsCommand(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out := runCommand(t, "--config", cfgPath, "cache", "stats")

	assert.Contains(t, out, "Entries: 0")
	assert.Contains(t, out, "TTL:")
}
