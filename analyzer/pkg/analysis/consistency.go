package analysis

import (
	"sort"
	"time"
)

// DegradationFinding is the audit trail for one Sesuai → Tidak Sesuai
// transition of a tracked field within a single NIK's history: a field
// that matched the registry and then stopped matching.
type DegradationFinding struct {
	NIK          string    `json:"nik"`
	Field        string    `json:"field"`
	FromStatus   string    `json:"from_status"`
	ToStatus     string    `json:"to_status"`
	FromAt       time.Time `json:"from_at"`
	ToAt         time.Time `json:"to_at"`
	ElapsedHours float64   `json:"elapsed_hours"`
	FromSource   string    `json:"from_source"`
	ToSource     string    `json:"to_source"`
	FromApp      string    `json:"from_app"`
	ToApp        string    `json:"to_app"`
}

// DetectDegradations scans each NIK with more than one event. For every
// tracked field it walks the evaluated statuses in chronological order and
// flags each adjacent Sesuai → Tidak Sesuai pair; the pattern may recur and
// every occurrence is reported. Missing ("-") statuses are unevaluated
// probes and do not participate in adjacency. Events without a timestamp
// cannot be placed chronologically and are excluded from the walk.
func DetectDegradations(snap *Snapshot) []DegradationFinding {
	findings := []DegradationFinding{}

	groups := groupByNIK(snap.Events)
	for _, nik := range sortedNIKs(groups) {
		events := timestamped(groups[nik])
		if len(events) < 2 {
			continue
		}
		sortChronological(events)

		for _, field := range TrackedFields {
			var prev *Event
			for i := range events {
				cur := &events[i]
				status := cur.Status(field)
				if status == StatusMissing {
					continue
				}
				if prev != nil && prev.Status(field) == StatusMatch && status == StatusMismatch {
					findings = append(findings, DegradationFinding{
						NIK:          nik,
						Field:        field,
						FromStatus:   StatusMatch,
						ToStatus:     StatusMismatch,
						FromAt:       prev.CreatedAt,
						ToAt:         cur.CreatedAt,
						ElapsedHours: cur.CreatedAt.Sub(prev.CreatedAt).Hours(),
						FromSource:   prev.SourceResult,
						ToSource:     cur.SourceResult,
						FromApp:      prev.SourceApp,
						ToApp:        cur.SourceApp,
					})
				}
				prev = cur
			}
		}
	}
	return findings
}

// SourceDisagreement records two or more sources reporting different modal
// statuses for the same field of the same NIK. Sources and Values are
// parallel slices in the order each source was first seen for that NIK.
type SourceDisagreement struct {
	NIK     string   `json:"nik"`
	Field   string   `json:"field"`
	Sources []string `json:"sources"`
	Values  []string `json:"values"`
}

// DetectDisagreements compares, per NIK and tracked field, the modal
// evaluated status each source reported. Ties on frequency go to the value
// seen first chronologically — an explicit rule, not an artifact of map
// iteration. Entities seen through fewer than two distinct sources are
// skipped; a single source contradicting itself is degradation territory,
// not disagreement.
func DetectDisagreements(snap *Snapshot) []SourceDisagreement {
	findings := []SourceDisagreement{}

	groups := groupByNIK(snap.Events)
	for _, nik := range sortedNIKs(groups) {
		events := groups[nik]
		sortChronological(events)

		sources := distinctSources(events)
		if len(sources) < 2 {
			continue
		}

		for _, field := range TrackedFields {
			var withValue []string
			var values []string
			for _, src := range sources {
				if modal, ok := modalStatus(events, src, field); ok {
					withValue = append(withValue, src)
					values = append(values, modal)
				}
			}
			if len(withValue) < 2 || allEqual(values) {
				continue
			}
			findings = append(findings, SourceDisagreement{
				NIK:     nik,
				Field:   field,
				Sources: withValue,
				Values:  values,
			})
		}
	}
	return findings
}

// distinctSources returns the SourceResult values present in events, in
// first-seen order. The input must already be chronologically sorted.
func distinctSources(events []Event) []string {
	seen := map[string]bool{}
	var sources []string
	for _, e := range events {
		if !seen[e.SourceResult] {
			seen[e.SourceResult] = true
			sources = append(sources, e.SourceResult)
		}
	}
	return sources
}

// modalStatus returns the most frequent evaluated status the given source
// reported for the field, with first-seen value winning ties. The second
// return is false when the source never evaluated the field.
func modalStatus(events []Event, source, field string) (string, bool) {
	counts := map[string]int{}
	var order []string
	for _, e := range events {
		if e.SourceResult != source {
			continue
		}
		status := e.Status(field)
		if status == StatusMissing {
			continue
		}
		if counts[status] == 0 {
			order = append(order, status)
		}
		counts[status]++
	}
	if len(order) == 0 {
		return "", false
	}

	best := order[0]
	for _, status := range order[1:] {
		if counts[status] > counts[best] {
			best = status
		}
	}
	return best, true
}

func allEqual(values []string) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// SortDegradations orders findings for stable tabular output.
func SortDegradations(findings []DegradationFinding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.NIK != b.NIK {
			return a.NIK < b.NIK
		}
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		return a.FromAt.Before(b.FromAt)
	})
}
