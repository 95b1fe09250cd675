package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInclude_NoRulesPassesEverything(t *testing.T) {
	g := Game{Name: "Proton 9.0", Category: CategoryLauncher}
	assert.True(t, Include(g, Rules{}))
}

func TestInclude_ExcludeCategories(t *testing.T) {
	rules := Rules{ExcludeCategories: []string{CategoryDesktop}}

	assert.False(t, Include(Game{Name: "Minesweeper", Category: CategoryDesktop}, rules))
	assert.True(t, Include(Game{Name: "Minesweeper", Category: CategorySteam}, rules))
}

func TestInclude_ExcludeKeywords(t *testing.T) {
	rules := Rules{ExcludeKeywords: []string{"demo", "Benchmark"}}

	tests := []struct {
		name     string
		game     string
		included bool
	}{
		{"keyword match", "Cyberpunk Demo", false},
		{"case-insensitive match", "GPU BENCHMARK Tool", false},
		{"no match", "Cyberpunk 2077", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Include(Game{Name: tt.game, Category: CategorySteam}, rules)
			assert.Equal(t, tt.included, got)
		})
	}
}

func TestInclude_GamesOnly(t *testing.T) {
	rules := Rules{
		GamesOnly:    true,
		ToolKeywords: []string{"proton", "runtime"},
	}

	tests := []struct {
		name     string
		game     Game
		included bool
	}{
		{
			"generic launcher entry dropped",
			Game{Name: "File Manager", Category: CategoryLauncher},
			false,
		},
		{
			"desktop entry with platform id kept",
			Game{Name: "Factorio", Category: CategoryDesktop, PlatformID: "427520"},
			true,
		},
		{
			"wrapped storefront entry kept",
			Game{Name: "Elden Ring (Steam)", Category: CategoryDesktop},
			true,
		},
		{
			"tool keyword dropped even for steam category",
			Game{Name: "Proton Experimental", Category: CategorySteam, PlatformID: "1493710"},
			false,
		},
		{
			"plain steam game kept",
			Game{Name: "Stardew Valley", Category: CategorySteam, PlatformID: "413150"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.included, Include(tt.game, rules))
		})
	}
}

func TestInclude_RulesCombineWithAND(t *testing.T) {
	// A category exclusion fires even when no keyword rule matches.
	rules := Rules{
		ExcludeCategories: []string{"desktop"},
		ExcludeKeywords:   []string{"zzz-no-match"},
	}
	assert.False(t, Include(Game{Name: "Tetris", Category: "desktop"}, rules))
}

func TestApply_RemovesExcluded(t *testing.T) {
	merged := map[string]*Game{
		"Keep": {Name: "Keep", Category: CategorySteam},
		"Drop": {Name: "Drop", Category: CategoryDesktop},
	}

	out := Apply(merged, Rules{ExcludeCategories: []string{CategoryDesktop}})

	assert.Contains(t, out, "Keep")
	assert.NotContains(t, out, "Drop")
}
