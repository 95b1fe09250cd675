// Package scan implements the per-origin collectors. Each collector
// reads one source of installed-game records and emits normalized
// catalog entries.
//
// Collectors never fail the run: a missing location or an unparsable
// file is logged and skipped, and the collector returns whatever it
// could gather. All filesystem access is read-only.
package scan

import (
	"context"

	"gamedex/internal/catalog"
)

// Collector scans one origin and emits normalized Game records.
type Collector interface {
	// Source returns the tag the collector stamps on its records.
	Source() string
	// Collect returns every record the origin currently holds.
	Collect(ctx context.Context) []catalog.Game
}
