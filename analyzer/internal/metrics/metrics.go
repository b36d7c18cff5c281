package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analysis run metrics
	AnalysisRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veriwatch_analysis_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "veriwatch_analysis_duration_seconds",
			Help:    "Duration of analysis runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Dataset metrics
	EventsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "veriwatch_events_loaded",
			Help: "Number of verification events currently loaded",
		},
	)

	RowsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veriwatch_rows_skipped_total",
			Help: "Rows excluded from analysis snapshots, by reason",
		},
		[]string{"reason"},
	)

	// Report cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "veriwatch_report_cache_hits_total",
			Help: "Analysis reports served from the cache",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "veriwatch_report_cache_misses_total",
			Help: "Analysis requests that missed the cache",
		},
	)
)
