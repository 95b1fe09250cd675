// Package pipeline runs the full catalog build: collect from every
// enabled source, merge by name, filter, resolve missing covers, then
// sort into the final snapshot.
package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"gamedex/internal/catalog"
	"gamedex/internal/config"
	"gamedex/internal/covers"
	"gamedex/internal/imagecache"
	"gamedex/internal/logging"
	"gamedex/internal/metrics"
	"gamedex/internal/palette"
	"gamedex/internal/scan"
	"gamedex/internal/tracing"
)

// Snapshot is the complete catalog build output.
type Snapshot struct {
	Games  []catalog.Game    `json:"games"`
	Config *config.Config    `json:"config"`
	Colors map[string]string `json:"colors"`
}

// Pipeline orchestrates one catalog build from a loaded configuration.
type Pipeline struct {
	cfg *config.Config

	// cache is kept open across Run for cache maintenance commands.
	cache *imagecache.Store
}

// New builds a pipeline, opens its cover cache, and sweeps entries that
// expired since the last run.
func New(cfg *config.Config) *Pipeline {
	ttl := time.Duration(cfg.GetCacheTTLHours()) * time.Hour
	cache := imagecache.Open(config.ExpandPath(cfg.Cache.Path), ttl)
	if removed := cache.SweepExpired(); removed > 0 {
		logging.Debug("evicted expired cover cache entries", "count", removed)
	}
	return &Pipeline{cfg: cfg, cache: cache}
}

// Cache exposes the cover cache for maintenance commands.
func (p *Pipeline) Cache() *imagecache.Store {
	return p.cache
}

// stage is one merge input: a collector plus its merge policy.
type stage struct {
	collector scan.Collector
	policy    catalog.MergePolicy
}

// stages returns the enabled collectors in merge precedence order.
// Desktop entries only fill gaps; manual entries run last so they
// override every other source.
func (p *Pipeline) stages() []stage {
	var stages []stage

	if p.cfg.Steam.Enabled {
		stages = append(stages,
			stage{scan.NewSteamCollector(p.cfg.Steam), catalog.Overlay},
			stage{scan.NewShortcutsCollector(p.cfg.Steam), catalog.Overlay},
		)
	}
	if p.cfg.Heroic.Enabled {
		stages = append(stages, stage{scan.NewHeroicCollector(p.cfg.Heroic), catalog.Overlay})
	}
	if p.cfg.Lutris.Enabled {
		stages = append(stages, stage{scan.NewLutrisCollector(p.cfg.Lutris), catalog.Overlay})
	}
	stages = append(stages, stage{scan.NewConfigEntriesCollector(p.cfg), catalog.Overlay})
	if p.cfg.Desktop.Enabled {
		stages = append(stages, stage{scan.NewDesktopCollector(p.cfg.Desktop), catalog.AddIfAbsent})
	}
	stages = append(stages, stage{scan.NewManualCollector(p.cfg.GamesFile()), catalog.Overlay})

	return stages
}

// Run executes one full catalog build.
func (p *Pipeline) Run(ctx context.Context) *Snapshot {
	ctx, span := tracing.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	merged := p.collect(ctx)
	merged = p.filter(ctx, merged)
	p.resolveCovers(ctx, merged)

	games := catalog.Flatten(merged, p.cfg.Behavior.SortBy, p.cfg.Behavior.ShowFavoritesFirst)
	metrics.GamesTotal.Set(float64(len(games)))

	colors := map[string]string{}
	if p.cfg.Appearance.UseWallust {
		colors = palette.Load(p.cfg.Appearance.WallustPath)
	}

	logging.Info("catalog build complete", "games", len(games))
	return &Snapshot{Games: games, Config: p.cfg, Colors: colors}
}

// collect runs every enabled collector and merges the batches.
func (p *Pipeline) collect(ctx context.Context) map[string]*catalog.Game {
	ctx, span := tracing.StartSpan(ctx, "pipeline.collect")
	defer span.End()

	var batches []catalog.Batch
	for _, st := range p.stages() {
		source := st.collector.Source()
		start := time.Now()

		collectCtx, collectSpan := tracing.StartSpan(ctx, "scan."+source,
			tracing.WithAttributes(attribute.String("scan.source", source)),
		)
		games := st.collector.Collect(collectCtx)
		collectSpan.End()

		metrics.RecordScanDuration(source, start)
		metrics.GamesBySource.WithLabelValues(source).Set(float64(len(games)))
		logging.Debug("collector finished", "source", source, "games", len(games))

		batches = append(batches, catalog.Batch{Games: games, Policy: st.policy})
	}

	return catalog.Merge(batches)
}

// filter applies the configured exclusion rules.
func (p *Pipeline) filter(ctx context.Context, merged map[string]*catalog.Game) map[string]*catalog.Game {
	_, span := tracing.StartSpan(ctx, "pipeline.filter")
	defer span.End()

	return catalog.Apply(merged, catalog.Rules{
		GamesOnly:         p.cfg.Filter.GamesOnly,
		ExcludeCategories: p.cfg.Filter.ExcludeCategories,
		ExcludeKeywords:   p.cfg.Filter.ExcludeKeywords,
		ToolKeywords:      p.cfg.Filter.ToolKeywords,
	})
}

// resolveCovers fills in missing cover images concurrently.
func (p *Pipeline) resolveCovers(ctx context.Context, merged map[string]*catalog.Game) {
	if !p.cfg.Steam.FetchCovers {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "pipeline.resolveCovers")
	defer span.End()

	timeout := time.Duration(p.cfg.GetFetchTimeout()) * time.Second

	var grid *covers.GridClient
	if p.cfg.GridDB.Enabled && p.cfg.GridDB.APIKey != "" {
		var err error
		grid, err = covers.NewGridClient(
			p.cfg.GridDB.BaseURL, p.cfg.GridDB.APIKey,
			p.cfg.GridDB.Styles, p.cfg.GridDB.Types, timeout,
		)
		if err != nil {
			tracing.RecordError(span, err)
			logging.Warn("cover service unavailable", "error", err)
		}
	}

	cdn := covers.NewCDNProber(covers.DefaultCDNBase, timeout)
	resolver := covers.NewResolver(p.cache, grid, cdn, p.cfg.GridDB.FallbackToCDN)

	covers.ResolveMissing(ctx, merged, resolver, p.cfg.GetWorkers())
}
