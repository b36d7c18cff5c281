package service

import (
	"context"
	"sort"
	"time"

	"github.com/sentrakyc/veriwatch/analyzer/internal/metrics"
	"github.com/sentrakyc/veriwatch/analyzer/pkg/analysis"
	"github.com/sentrakyc/veriwatch/common/logging"
)

// Service owns the loaded event set and runs analyses over it. The event
// set is immutable after construction; every Run builds a fresh snapshot
// from explicit filter parameters, so concurrent requests never share
// mutable state.
type Service struct {
	events                []analysis.Event
	unparseableTimestamps int
	defaults              analysis.Options
	cache                 *ReportCache
	logger                *logging.Logger
}

// New creates a Service over the given events.
func New(events []analysis.Event, unparseable int, defaults analysis.Options, cache *ReportCache, logger *logging.Logger) *Service {
	if cache == nil {
		cache = NewReportCache(nil, 0, false)
	}
	metrics.EventsLoaded.Set(float64(len(events)))
	return &Service{
		events:                events,
		unparseableTimestamps: unparseable,
		defaults:              defaults,
		cache:                 cache,
		logger:                logger,
	}
}

// DatasetInfo describes the loaded event set.
type DatasetInfo struct {
	TotalEvents           int      `json:"total_events"`
	UnparseableTimestamps int      `json:"unparseable_timestamps"`
	SourceResults         []string `json:"source_results"`
	EarliestDate          string   `json:"earliest_date,omitempty"`
	LatestDate            string   `json:"latest_date,omitempty"`
}

// Dataset summarizes what is loaded, including the distinct source results
// callers can filter on.
func (s *Service) Dataset() DatasetInfo {
	info := DatasetInfo{
		TotalEvents:           len(s.events),
		UnparseableTimestamps: s.unparseableTimestamps,
	}

	seen := map[string]bool{}
	var earliest, latest time.Time
	for _, e := range s.events {
		if !seen[e.SourceResult] {
			seen[e.SourceResult] = true
			info.SourceResults = append(info.SourceResults, e.SourceResult)
		}
		if !e.HasTimestamp() {
			continue
		}
		if earliest.IsZero() || e.CreatedAt.Before(earliest) {
			earliest = e.CreatedAt
		}
		if latest.IsZero() || e.CreatedAt.After(latest) {
			latest = e.CreatedAt
		}
	}
	sort.Strings(info.SourceResults)
	if !earliest.IsZero() {
		info.EarliestDate = earliest.Format("2006-01-02")
		info.LatestDate = latest.Format("2006-01-02")
	}
	return info
}

// Run executes one analysis over the filtered event set. Zero-valued
// options fall back to the service defaults. The report cache, when
// enabled, short-circuits repeated identical requests.
func (s *Service) Run(ctx context.Context, filter analysis.Filter, opts analysis.Options) (*analysis.Report, error) {
	if opts.RapidFireWindow <= 0 {
		opts.RapidFireWindow = s.defaults.RapidFireWindow
	}
	if opts.SpikeSigma <= 0 {
		opts.SpikeSigma = s.defaults.SpikeSigma
	}
	if opts.RepeatTopN <= 0 {
		opts.RepeatTopN = s.defaults.RepeatTopN
	}

	key := s.cache.Key(filter, opts)
	if cached, err := s.cache.Get(ctx, key); err != nil {
		// A broken cache degrades to recomputing, never to failing the run.
		s.logger.WarnContext(ctx, "report cache read failed", "error", err)
	} else if cached != nil {
		metrics.CacheHitsTotal.Inc()
		return cached, nil
	}
	if s.cache.IsEnabled() {
		metrics.CacheMissesTotal.Inc()
	}

	started := time.Now()
	snap, err := analysis.ApplyFilter(s.events, filter)
	if err != nil {
		metrics.AnalysisRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	for reason, n := range snap.Skipped {
		metrics.RowsSkippedTotal.WithLabelValues(reason).Add(float64(n))
	}

	report := analysis.Analyze(snap, opts)
	metrics.AnalysisRunsTotal.WithLabelValues("ok").Inc()
	metrics.AnalysisDuration.Observe(time.Since(started).Seconds())

	s.logger.InfoContext(ctx, "analysis run complete",
		"rows", report.TotalRows,
		"insights", len(report.Insights),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if err := s.cache.Put(ctx, key, report); err != nil {
		s.logger.WarnContext(ctx, "report cache write failed", "error", err)
	}
	return report, nil
}

// Degradations returns the sorted degradation log for the filtered set,
// used by the CSV export endpoint.
func (s *Service) Degradations(ctx context.Context, filter analysis.Filter) ([]analysis.DegradationFinding, error) {
	snap, err := analysis.ApplyFilter(s.events, filter)
	if err != nil {
		return nil, err
	}
	findings := analysis.DetectDegradations(snap)
	analysis.SortDegradations(findings)
	return findings, nil
}

// DrillDown returns the single-entity view over the whole loaded set.
func (s *Service) DrillDown(ctx context.Context, nik string) *analysis.DrillDown {
	snap := &analysis.Snapshot{Events: s.events}
	return analysis.DrillDownNIK(snap, nik)
}
