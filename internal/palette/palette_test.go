package palette

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FlattensSpecialAndColors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"wallpaper": "/home/user/wall.png",
		"special": {
			"background": "#1a1b26",
			"foreground": "#c0caf5",
			"cursor": "#c0caf5"
		},
		"colors": {
			"color0": "#15161e",
			"color1": "#f7768e",
			"color15": "#c0caf5"
		}
	}`), 0o644))

	colors := Load(path)

	assert.Len(t, colors, 6)
	assert.Equal(t, "#1a1b26", colors["background"])
	assert.Equal(t, "#f7768e", colors["color1"])
	assert.NotContains(t, colors, "wallpaper")
}

func TestLoad_MissingFile(t *testing.T) {
	colors := Load(filepath.Join(t.TempDir(), "wal.json"))
	assert.NotNil(t, colors)
	assert.Empty(t, colors)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	colors := Load(path)
	assert.NotNil(t, colors)
	assert.Empty(t, colors)
}
