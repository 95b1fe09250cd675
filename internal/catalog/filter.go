package catalog

import "strings"

// Rules are the filter predicates applied to the merged catalog.
// All active rules must pass for a record to survive.
type Rules struct {
	// GamesOnly drops generic launcher and desktop records that carry no
	// platform id and no storefront marker in their name, plus anything
	// matching ToolKeywords.
	GamesOnly         bool
	ExcludeCategories []string // exact category match
	ExcludeKeywords   []string // case-insensitive substring match on name
	ToolKeywords      []string // infrastructure-tool names, only under GamesOnly
}

// genericCategories are the categories GamesOnly treats as non-game
// wrappers unless the record proves otherwise.
var genericCategories = map[string]bool{
	CategoryGeneric:  true,
	CategoryLauncher: true,
	CategoryDesktop:  true,
}

// storefrontMarkers signal a desktop or launcher entry that wraps a
// storefront game, e.g. "Celeste (Steam)".
var storefrontMarkers = []string{
	"(steam)",
	"(epic)",
	"(gog)",
	"(lutris)",
	"(heroic)",
}

// Include reports whether the record passes every active rule.
func Include(g Game, r Rules) bool {
	name := strings.ToLower(g.Name)

	if r.GamesOnly {
		if genericCategories[g.Category] && g.PlatformID == "" && !hasStorefrontMarker(name) {
			return false
		}
		for _, kw := range r.ToolKeywords {
			if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
				return false
			}
		}
	}

	for _, cat := range r.ExcludeCategories {
		if g.Category == cat {
			return false
		}
	}

	for _, kw := range r.ExcludeKeywords {
		if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
			return false
		}
	}

	return true
}

// Apply filters the catalog in place over a name-keyed mapping, returning
// the surviving records.
func Apply(merged map[string]*Game, r Rules) map[string]*Game {
	for name, g := range merged {
		if !Include(*g, r) {
			delete(merged, name)
		}
	}
	return merged
}

func hasStorefrontMarker(lowerName string) bool {
	for _, marker := range storefrontMarkers {
		if strings.Contains(lowerName, marker) {
			return true
		}
	}
	return false
}
