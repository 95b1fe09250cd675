// Package catalog defines the unified game record and the merge, filter,
// and sort stages that turn raw collector output into the final catalog.
package catalog

// Source tags identify which collector produced a record.
const (
	SourceSteam     = "steam"
	SourceShortcuts = "steam-shortcut"
	SourceEpic      = "epic"
	SourceGOG       = "gog"
	SourceAmazon    = "amazon"
	SourceHeroic    = "heroic"
	SourceLutris    = "lutris"
	SourceDesktop   = "desktop"
	SourceConfig    = "config"
	SourceManual    = "manual"
)

// Coarse categories assigned by collectors.
const (
	CategorySteam    = "steam"
	CategorySideload = "sideload"
	CategoryDesktop  = "desktop"
	CategoryLauncher = "launcher"
	CategoryGeneric  = "generic"
)

// Game is the unit of the catalog. Name is the dedup key; records with
// the same name from different sources are merged by precedence.
type Game struct {
	Name       string `json:"name"`
	Exec       string `json:"exec"`
	Image      string `json:"image,omitempty"`
	Category   string `json:"category"`
	Favorite   bool   `json:"favorite"`
	Source     string `json:"source"`
	LastPlayed int64  `json:"last_played"`
	Playtime   int64  `json:"playtime,omitempty"`    // minutes
	PlatformID string `json:"platform_id,omitempty"` // origin-specific id for cover lookups
}

// overlay copies every field the incoming record explicitly sets onto g.
// Empty strings and zero values count as unset and never clobber prior
// data; Favorite defaults to false, so only true counts as set.
func (g *Game) overlay(in Game) {
	if in.Exec != "" {
		g.Exec = in.Exec
	}
	if in.Image != "" {
		g.Image = in.Image
	}
	if in.Category != "" {
		g.Category = in.Category
	}
	if in.Favorite {
		g.Favorite = true
	}
	if in.Source != "" {
		g.Source = in.Source
	}
	if in.LastPlayed != 0 {
		g.LastPlayed = in.LastPlayed
	}
	if in.Playtime != 0 {
		g.Playtime = in.Playtime
	}
	if in.PlatformID != "" {
		g.PlatformID = in.PlatformID
	}
}
