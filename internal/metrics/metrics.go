package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

var (
	// Catalog Gauges
	GamesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamedex_games_total",
		Help: "Total number of games in the merged catalog.",
	})
	GamesBySource = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gamedex_games_by_source",
		Help: "Number of records emitted per collector.",
	}, []string{"source"})

	// Cover resolution
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamedex_cover_cache_lookups_total",
		Help: "Cover cache lookups by outcome.",
	}, []string{"outcome"}) // outcome: hit, negative_hit, miss, expired

	CoversResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamedex_covers_resolved_total",
		Help: "Cover resolutions by result.",
	}, []string{"result"}) // result: service, cdn, cdn_unverified, negative, error

	// Stage Performance
	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamedex_scan_duration_seconds",
		Help:    "Duration of per-source collector runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	ResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gamedex_resolve_duration_seconds",
		Help:    "Duration of the concurrent cover resolution stage in seconds.",
		Buckets: prometheus.DefBuckets,
	})
)

// RecordScanDuration records the time taken by a single collector.
func RecordScanDuration(source string, start time.Time) {
	ScanDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

// RecordResolveDuration records the time taken by the fetch stage.
func RecordResolveDuration(start time.Time) {
	ResolveDuration.Observe(time.Since(start).Seconds())
}

// WriteTo dumps every registered metric in the text exposition format.
// The CLI exposes it behind --metrics: a one-shot run has no scrape
// endpoint, so counters are reported at exit instead.
func WriteTo(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
