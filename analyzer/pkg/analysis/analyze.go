package analysis

import (
	"sync"
	"time"
)

// Options carries the tunable detection thresholds for one analysis run.
type Options struct {
	RapidFireWindow time.Duration `json:"rapid_fire_window"`
	SpikeSigma      float64       `json:"spike_sigma"`
	RepeatTopN      int           `json:"repeat_top_n"`
}

// DefaultOptions returns the named default thresholds.
func DefaultOptions() Options {
	return Options{
		RapidFireWindow: DefaultRapidFireWindow,
		SpikeSigma:      DefaultSpikeSigma,
		RepeatTopN:      DefaultRepeatTopN,
	}
}

func (o Options) withDefaults() Options {
	if o.RapidFireWindow <= 0 {
		o.RapidFireWindow = DefaultRapidFireWindow
	}
	if o.SpikeSigma <= 0 {
		o.SpikeSigma = DefaultSpikeSigma
	}
	if o.RepeatTopN <= 0 {
		o.RepeatTopN = DefaultRepeatTopN
	}
	return o
}

// Report is the complete output of one analysis run over one snapshot.
type Report struct {
	GeneratedAt    time.Time             `json:"generated_at"`
	TotalRows      int                   `json:"total_rows"`
	SkippedRows    map[string]int        `json:"skipped_rows"`
	Options        Options               `json:"options"`
	Classification *ClassificationResult `json:"classification"`
	RapidFire      []RapidFireFinding    `json:"rapid_fire"`
	RapidFireStats []RapidFireStats      `json:"rapid_fire_stats"`
	Hourly         *HourlyReport         `json:"hourly"`
	Degradations   []DegradationFinding  `json:"degradations"`
	Disagreements  []SourceDisagreement  `json:"disagreements"`
	Sources        []SourceScore         `json:"sources"`
	Overview       *Overview             `json:"overview"`
	Insights       []Insight             `json:"insights"`
}

// Analyze runs every analyzer over the snapshot and composes the insight
// list. The analyzers are independent read-only computations over the same
// immutable snapshot, so they run concurrently; the insight aggregation is
// the barrier that waits for all of them. Each call is a fresh computation
// with no shared mutable state, and an empty snapshot yields the natural
// degenerate report rather than an error.
func Analyze(snap *Snapshot, opts Options) *Report {
	opts = opts.withDefaults()
	report := &Report{
		GeneratedAt: time.Now().UTC(),
		TotalRows:   snap.TotalRows(),
		SkippedRows: snap.Skipped,
		Options:     opts,
	}

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() { report.Classification = ClassifySequences(snap) })
	run(func() { report.RapidFire, report.RapidFireStats = DetectRapidFire(snap, opts.RapidFireWindow) })
	run(func() { report.Hourly = DetectHourlySpikes(snap, opts.SpikeSigma) })
	run(func() {
		report.Degradations = DetectDegradations(snap)
		SortDegradations(report.Degradations)
	})
	run(func() { report.Disagreements = DetectDisagreements(snap) })
	run(func() { report.Sources = ScoreSources(snap) })
	run(func() { report.Overview = BuildOverview(snap, opts.RepeatTopN) })
	wg.Wait()

	report.Insights = BuildInsights(report)
	return report
}
