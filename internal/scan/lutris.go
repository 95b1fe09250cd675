package scan

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"gamedex/internal/catalog"
	"gamedex/internal/config"
	"gamedex/internal/logging"
)

// LutrisCollector reads installed games from the Lutris pga.db SQLite
// database. The database is opened read-only so a running Lutris
// instance never sees lock contention from a scan.
type LutrisCollector struct {
	dbPath string
}

// NewLutrisCollector builds a collector for the configured database path.
func NewLutrisCollector(cfg config.Lutris) *LutrisCollector {
	return &LutrisCollector{dbPath: config.ExpandPath(cfg.DBPath)}
}

func (c *LutrisCollector) Source() string {
	return catalog.SourceLutris
}

// Collect queries the games table for installed entries. A missing or
// unreadable database yields an empty slice rather than an error so the
// rest of the scan proceeds.
func (c *LutrisCollector) Collect(ctx context.Context) []catalog.Game {
	if c.dbPath == "" {
		return nil
	}
	if _, err := os.Stat(c.dbPath); err != nil {
		logging.Debug("lutris database not found", "path", c.dbPath)
		return nil
	}

	games, err := c.readGames(ctx)
	if err != nil {
		logging.Warn("failed to read lutris database", "path", c.dbPath, "error", err)
		return nil
	}
	return games
}

func (c *LutrisCollector) readGames(ctx context.Context) ([]catalog.Game, error) {
	conn, err := sql.Open("sqlite", "file:"+c.dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, `
		SELECT name, slug, runner, lastplayed, playtime
		FROM games
		WHERE installed = 1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var games []catalog.Game
	for rows.Next() {
		var (
			name       sql.NullString
			slug       sql.NullString
			runner     sql.NullString
			lastPlayed sql.NullInt64
			playtime   sql.NullFloat64
		)
		if err := rows.Scan(&name, &slug, &runner, &lastPlayed, &playtime); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		if !name.Valid || name.String == "" || !slug.Valid || slug.String == "" {
			continue
		}

		category := catalog.SourceLutris
		if runner.Valid && runner.String != "" {
			category = runner.String
		}

		// Lutris stores playtime as fractional hours.
		var minutes int64
		if playtime.Valid {
			minutes = int64(playtime.Float64 * 60)
		}

		games = append(games, catalog.Game{
			Name:       name.String,
			Exec:       "lutris lutris:rungame/" + slug.String,
			Category:   category,
			Source:     catalog.SourceLutris,
			LastPlayed: lastPlayed.Int64,
			Playtime:   minutes,
			PlatformID: slug.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game rows: %w", err)
	}
	return games, nil
}
