package catalog

import (
	"sort"
	"strings"
)

// Sort keys for the secondary ordering.
const (
	SortByName     = "name"     // case-insensitive ascending
	SortByRecent   = "recent"   // last played descending
	SortByPlaytime = "playtime" // total playtime descending
)

// Sort orders the catalog with a stable two-key comparison: favorites
// first when enabled, then the configured secondary key. Unknown sort
// keys fall back to name ordering.
func Sort(games []Game, sortBy string, favoritesFirst bool) {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := games[i], games[j]

		if favoritesFirst && a.Favorite != b.Favorite {
			return a.Favorite
		}

		switch sortBy {
		case SortByRecent:
			if a.LastPlayed != b.LastPlayed {
				return a.LastPlayed > b.LastPlayed
			}
		case SortByPlaytime:
			if a.Playtime != b.Playtime {
				return a.Playtime > b.Playtime
			}
		}

		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// Flatten converts the name-keyed mapping to a slice ordered per Sort.
func Flatten(merged map[string]*Game, sortBy string, favoritesFirst bool) []Game {
	games := make([]Game, 0, len(merged))
	for _, g := range merged {
		games = append(games, *g)
	}
	Sort(games, sortBy, favoritesFirst)
	return games
}
