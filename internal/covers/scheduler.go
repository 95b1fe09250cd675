package covers

import (
	"context"
	"strings"
	"sync"
	"time"

	"gamedex/internal/catalog"
	"gamedex/internal/logging"
	"gamedex/internal/metrics"
)

// resolvableSources are the origins whose platform ids the service or
// the CDN convention can be queried with.
var resolvableSources = map[string]bool{
	catalog.SourceSteam:  true,
	catalog.SourceEpic:   true,
	catalog.SourceGOG:    true,
	catalog.SourceAmazon: true,
}

// needsResolution reports whether a record should go through the
// resolver: no image yet, or only the unvalidated CDN-convention
// placeholder, and an origin we can actually look up.
func needsResolution(g *catalog.Game) bool {
	if g.PlatformID == "" || !resolvableSources[g.Source] {
		return false
	}
	return g.Image == "" || strings.HasPrefix(g.Image, DefaultCDNBase)
}

type resolveJob struct {
	name string
	kind string
	id   string
}

type resolveResult struct {
	name string
	url  string
}

// ResolveMissing resolves covers for every eligible record in the merged
// catalog, running at most workers resolver calls concurrently. Results
// are applied to the records only after the pool drains, keyed by name,
// so completion order never matters and the catalog needs no locking.
// Failed or empty resolutions simply leave the image field empty.
func ResolveMissing(ctx context.Context, merged map[string]*catalog.Game, r *Resolver, workers int) {
	if r == nil || len(merged) == 0 {
		return
	}
	if workers <= 0 {
		workers = 10
	}

	start := time.Now()
	defer metrics.RecordResolveDuration(start)

	jobs := make(chan resolveJob, workers)
	results := make(chan resolveResult, len(merged))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- resolveResult{
					name: job.name,
					url:  r.Resolve(ctx, job.kind, job.id),
				}
			}
		}()
	}

	pending := 0
	for name, g := range merged {
		if !needsResolution(g) {
			continue
		}
		jobs <- resolveJob{name: name, kind: PlatformKind(g.Source), id: g.PlatformID}
		pending++
	}
	close(jobs)
	wg.Wait()
	close(results)

	// Single write-back pass once every task has finished.
	for res := range results {
		if res.url == "" {
			continue
		}
		if g, ok := merged[res.name]; ok {
			g.Image = res.url
		}
	}

	logging.Debug("cover resolution complete", "eligible", pending, "workers", workers)
}
