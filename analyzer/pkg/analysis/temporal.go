package analysis

import (
	"math"
	"sort"
	"time"
)

// Named detection thresholds. Exposed so tests can probe boundary behavior
// precisely instead of relying on magic numbers buried in the scan loops.
const (
	// DefaultRapidFireWindow flags consecutive requests for the same NIK
	// arriving strictly faster than this.
	DefaultRapidFireWindow = 5 * time.Second

	// SuspiciousHitCount and FraudRiskHitCount grade per-NIK rapid-fire
	// totals: more than SuspiciousHitCount hits marks automated-looking
	// traffic, more than FraudRiskHitCount marks a fraud risk.
	SuspiciousHitCount = 3
	FraudRiskHitCount  = 5

	// DefaultSpikeSigma is the z-score multiplier for hourly volume spikes.
	DefaultSpikeSigma = 2.0
)

// Rapid-fire traffic levels, worst first.
const (
	LevelFraudRisk  = "fraud_risk"
	LevelSuspicious = "suspicious"
	LevelRepeat     = "repeat"
)

// RapidFireFinding flags one event that followed its same-NIK predecessor
// within the rapid-fire window.
type RapidFireFinding struct {
	NIK             string    `json:"nik"`
	EventID         string    `json:"event_id"`
	At              time.Time `json:"at"`
	PreviousAt      time.Time `json:"previous_at"`
	IntervalSeconds float64   `json:"interval_seconds"`
}

// RapidFireStats aggregates rapid-fire hits for one NIK.
type RapidFireStats struct {
	NIK                 string  `json:"nik"`
	Hits                int     `json:"hits"`
	MeanIntervalSeconds float64 `json:"mean_interval_seconds"`
	Level               string  `json:"level"`
}

// DetectRapidFire walks each NIK's events in chronological order and flags
// every event whose gap to its predecessor is strictly below window. Events
// without a timestamp cannot be placed in the sequence and are skipped.
// Entities with a single event simply produce no findings.
func DetectRapidFire(snap *Snapshot, window time.Duration) ([]RapidFireFinding, []RapidFireStats) {
	findings := []RapidFireFinding{}
	stats := []RapidFireStats{}

	groups := groupByNIK(snap.Events)
	for _, nik := range sortedNIKs(groups) {
		events := timestamped(groups[nik])
		if len(events) < 2 {
			continue
		}
		sortChronological(events)

		var hits int
		var sum float64
		for i := 1; i < len(events); i++ {
			gap := events[i].CreatedAt.Sub(events[i-1].CreatedAt)
			if gap >= window {
				continue
			}
			interval := gap.Seconds()
			findings = append(findings, RapidFireFinding{
				NIK:             nik,
				EventID:         events[i].ID,
				At:              events[i].CreatedAt,
				PreviousAt:      events[i-1].CreatedAt,
				IntervalSeconds: interval,
			})
			hits++
			sum += interval
		}
		if hits == 0 {
			continue
		}
		stats = append(stats, RapidFireStats{
			NIK:                 nik,
			Hits:                hits,
			MeanIntervalSeconds: sum / float64(hits),
			Level:               rapidFireLevel(hits),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Hits != stats[j].Hits {
			return stats[i].Hits > stats[j].Hits
		}
		return stats[i].NIK < stats[j].NIK
	})
	return findings, stats
}

func rapidFireLevel(hits int) string {
	switch {
	case hits > FraudRiskHitCount:
		return LevelFraudRisk
	case hits > SuspiciousHitCount:
		return LevelSuspicious
	default:
		return LevelRepeat
	}
}

// HourlyBucket is the request count for one hour of day across the whole
// filtered window. Buckets with no events are present with a zero count.
type HourlyBucket struct {
	Hour   int     `json:"hour"`
	Count  int     `json:"count"`
	ZScore float64 `json:"z_score"`
	Spike  bool    `json:"spike"`
}

// HourlyReport is the hour-of-day volume distribution with spike flags.
type HourlyReport struct {
	Buckets []HourlyBucket `json:"buckets"`
	Mean    float64        `json:"mean"`
	StdDev  float64        `json:"std_dev"`
	Spikes  int            `json:"spikes"`
}

// PeakHour returns the hour with the highest count, earliest hour on ties,
// and false when the snapshot holds no timestamped events.
func (r *HourlyReport) PeakHour() (HourlyBucket, bool) {
	peak := HourlyBucket{Hour: -1}
	for _, b := range r.Buckets {
		if b.Count > peak.Count {
			peak = b
		}
	}
	return peak, peak.Hour >= 0 && peak.Count > 0
}

// DetectHourlySpikes buckets timestamped events by hour of day irrespective
// of date and flags buckets whose count exceeds mean + sigma*stddev
// (population standard deviation over all 24 buckets). With zero variance
// nothing is flagged.
func DetectHourlySpikes(snap *Snapshot, sigma float64) *HourlyReport {
	var counts [24]int
	for _, e := range snap.Events {
		if !e.HasTimestamp() {
			continue
		}
		counts[e.CreatedAt.Hour()]++
	}

	var sum float64
	for _, c := range counts {
		sum += float64(c)
	}
	mean := sum / 24

	var variance float64
	for _, c := range counts {
		d := float64(c) - mean
		variance += d * d
	}
	variance /= 24
	std := math.Sqrt(variance)

	report := &HourlyReport{
		Buckets: make([]HourlyBucket, 24),
		Mean:    mean,
		StdDev:  std,
	}
	for h, c := range counts {
		b := HourlyBucket{Hour: h, Count: c}
		if std > 0 {
			b.ZScore = (float64(c) - mean) / std
			b.Spike = float64(c) > mean+sigma*std
		}
		if b.Spike {
			report.Spikes++
		}
		report.Buckets[h] = b
	}
	return report
}

// timestamped filters to events that carry a usable timestamp.
func timestamped(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.HasTimestamp() {
			out = append(out, e)
		}
	}
	return out
}
