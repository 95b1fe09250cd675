// Package covers resolves cover art for catalog entries, combining the
// SteamGridDB service, the TTL'd cover cache, and a Steam CDN fallback.
package covers

import (
	"context"
	"errors"

	"gamedex/internal/catalog"
	"gamedex/internal/imagecache"
	"gamedex/internal/logging"
	"gamedex/internal/metrics"
)

// imageCategory is the image kind requested from the service, part of
// the cache key so other kinds can coexist later.
const imageCategory = "grid"

// platformKinds maps a record's source tag to the service's platform
// vocabulary. Only sources the scheduler resolves appear; anything else
// falls back to defaultPlatformKind.
var platformKinds = map[string]string{
	catalog.SourceSteam:  "steam",
	catalog.SourceEpic:   "egs",
	catalog.SourceGOG:    "gog",
	catalog.SourceAmazon: "egs",
}

// defaultPlatformKind is used for sources the table does not know.
const defaultPlatformKind = "steam"

// PlatformKind returns the service platform vocabulary for a source tag.
func PlatformKind(source string) string {
	if kind, ok := platformKinds[source]; ok {
		return kind
	}
	return defaultPlatformKind
}

// Resolver resolves a cover image URL for a platform id, consulting the
// cache first and degrading gracefully on every failure.
type Resolver struct {
	cache    *imagecache.Store
	grid     *GridClient // nil when the service is disabled
	cdn      *CDNProber
	allowCDN bool
}

// NewResolver wires a resolver. grid may be nil (service disabled or
// unconfigured); cdn may be nil to disable the fallback chain entirely.
func NewResolver(cache *imagecache.Store, grid *GridClient, cdn *CDNProber, allowCDN bool) *Resolver {
	return &Resolver{cache: cache, grid: grid, cdn: cdn, allowCDN: allowCDN}
}

// Resolve returns the best cover URL for the given platform kind and id,
// or "" when nothing could be resolved. It never returns an error: a
// failed resolution is an unresolved image, not a failed run.
func (r *Resolver) Resolve(ctx context.Context, kind, id string) string {
	if id == "" {
		return ""
	}

	key := imagecache.Key(kind, id, imageCategory)

	if value, ok := r.cache.Lookup(key); ok {
		return value
	}

	if r.grid != nil {
		url, err := r.grid.FirstGrid(ctx, kind, id)
		switch {
		case err == nil:
			r.cacheResult(key, url)
			metrics.CoversResolved.WithLabelValues("service").Inc()
			return url
		case errors.Is(err, ErrNoGrids):
			// Definitive miss: remember it so the next runs within the
			// TTL window skip the network entirely.
			r.cacheResult(key, "")
			metrics.CoversResolved.WithLabelValues("negative").Inc()
		default:
			// Transient or unknown failure: do not cache, fall through.
			logging.Debug("cover service lookup failed", "platform", kind, "id", id, "error", err)
			metrics.CoversResolved.WithLabelValues("error").Inc()
		}
	}

	// Convention fallback exists only for the native Steam platform.
	if kind == "steam" && r.allowCDN && r.cdn != nil {
		url, verified := r.cdn.Probe(ctx, id)
		if verified {
			r.cacheResult(key, url)
			metrics.CoversResolved.WithLabelValues("cdn").Inc()
			return url
		}
		// Last resort: hand back the conventional banner URL without
		// caching it, so a reachable CDN can upgrade it next run.
		metrics.CoversResolved.WithLabelValues("cdn_unverified").Inc()
		return url
	}

	return ""
}

func (r *Resolver) cacheResult(key, value string) {
	if err := r.cache.Store(key, value); err != nil {
		logging.Warn("failed to persist cover cache entry", "key", key, "error", err)
	}
}
