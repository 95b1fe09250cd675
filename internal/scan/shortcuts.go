package scan

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gamedex/internal/catalog"
	"gamedex/internal/config"
	"gamedex/internal/logging"
)

// Binary VDF field type markers.
const (
	vdfTypeMap    = 0x00
	vdfTypeString = 0x01
	vdfTypeInt32  = 0x02
	vdfMapEnd     = 0x08
)

// ShortcutsCollector scans Steam's per-user shortcuts.vdf registries for
// non-Steam games added to the client.
type ShortcutsCollector struct {
	userdataPath string
}

// NewShortcutsCollector builds a collector over the Steam userdata dir.
func NewShortcutsCollector(cfg config.Steam) *ShortcutsCollector {
	return &ShortcutsCollector{userdataPath: config.ExpandPath(cfg.UserdataPath)}
}

// Source implements Collector.
func (c *ShortcutsCollector) Source() string {
	return catalog.SourceShortcuts
}

// Collect reads <userdata>/<uid>/config/shortcuts.vdf for every user.
func (c *ShortcutsCollector) Collect(_ context.Context) []catalog.Game {
	var games []catalog.Game

	userDirs, err := os.ReadDir(c.userdataPath)
	if err != nil {
		logging.Warn("steam userdata not found", "path", c.userdataPath, "error", err)
		return games
	}

	for _, dir := range userDirs {
		if !dir.IsDir() {
			continue
		}

		vdfPath := filepath.Join(c.userdataPath, dir.Name(), "config", "shortcuts.vdf")
		data, err := os.ReadFile(vdfPath)
		if err != nil {
			continue // user without shortcuts
		}

		shortcuts, err := parseShortcutsVDF(data)
		if err != nil {
			logging.Warn("skipping corrupt shortcuts registry", "path", vdfPath, "error", err)
			continue
		}

		games = append(games, shortcuts...)
	}

	return games
}

// parseShortcutsVDF decodes the binary registry and converts each
// shortcut into a game record.
func parseShortcutsVDF(data []byte) ([]catalog.Game, error) {
	root, err := readVDFMap(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	shortcuts, ok := root["shortcuts"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("no shortcuts block")
	}

	var games []catalog.Game
	for _, raw := range shortcuts {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		name := vdfString(entry, "appname")
		if name == "" {
			continue
		}

		appID, ok := entry["appid"].(uint32)
		if !ok || appID == 0 {
			continue
		}
		longID := launchAppID(appID)

		game := catalog.Game{
			Name:       name,
			Exec:       "steam steam://rungameid/" + strconv.FormatUint(longID, 10),
			Category:   catalog.CategorySteam,
			Source:     catalog.SourceShortcuts,
			PlatformID: strconv.FormatUint(longID, 10),
		}

		// The shortcut may carry a local icon; use it only when the
		// file actually exists.
		if icon := vdfString(entry, "icon"); icon != "" {
			if _, err := os.Stat(icon); err == nil {
				game.Image = icon
			}
		}

		games = append(games, game)
	}

	return games, nil
}

// launchAppID converts the short appid stored in shortcuts.vdf into the
// long id used by steam://rungameid/ launch URLs.
func launchAppID(short uint32) uint64 {
	return uint64(short)<<32 | 0x02000000
}

// readVDFMap decodes one binary VDF map, consuming up to and including
// its end marker. Keys are lowercased; the client writes them with
// inconsistent casing across versions.
func readVDFMap(r *bytes.Reader) (map[string]any, error) {
	result := make(map[string]any)

	for {
		fieldType, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return result, nil // tolerated: registry truncated at top level
			}
			return nil, err
		}

		if fieldType == vdfMapEnd {
			return result, nil
		}

		key, err := readVDFString(r)
		if err != nil {
			return nil, err
		}
		key = strings.ToLower(key)

		switch fieldType {
		case vdfTypeMap:
			nested, err := readVDFMap(r)
			if err != nil {
				return nil, err
			}
			result[key] = nested
		case vdfTypeString:
			value, err := readVDFString(r)
			if err != nil {
				return nil, err
			}
			result[key] = value
		case vdfTypeInt32:
			var value uint32
			if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
				return nil, err
			}
			result[key] = value
		default:
			return nil, fmt.Errorf("unknown field type 0x%02x", fieldType)
		}
	}
}

// readVDFString reads a null-terminated string.
func readVDFString(r *bytes.Reader) (string, error) {
	var buf bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return buf.String(), nil
		}
		buf.WriteByte(b)
	}
}

// vdfString fetches a string field from a decoded map, or "".
func vdfString(entry map[string]any, key string) string {
	s, _ := entry[key].(string)
	return s
}
