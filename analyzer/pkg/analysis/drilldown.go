package analysis

import "sort"

// SourceCount is the request volume one source handled for one NIK.
type SourceCount struct {
	SourceResult string `json:"source_result"`
	Count        int    `json:"count"`
}

// DrillDown is the single-entity view: per-source request counts plus the
// full detail rows, newest first.
type DrillDown struct {
	NIK          string        `json:"nik"`
	TotalHits    int           `json:"total_hits"`
	SourceCounts []SourceCount `json:"source_counts"`
	Events       []Event       `json:"events"`
}

// DrillDownNIK extracts everything the snapshot knows about one entity.
// Detail rows are ordered by CreatedAt descending with unknown timestamps
// last; an unknown NIK yields an empty drill-down, not an error.
func DrillDownNIK(snap *Snapshot, nik string) *DrillDown {
	dd := &DrillDown{NIK: nik, SourceCounts: []SourceCount{}, Events: []Event{}}

	counts := map[string]int{}
	for _, e := range snap.Events {
		if e.NIK != nik {
			continue
		}
		dd.Events = append(dd.Events, e)
		counts[e.SourceResult]++
	}
	dd.TotalHits = len(dd.Events)

	for source, n := range counts {
		dd.SourceCounts = append(dd.SourceCounts, SourceCount{SourceResult: source, Count: n})
	}
	sort.SliceStable(dd.SourceCounts, func(i, j int) bool {
		if dd.SourceCounts[i].Count != dd.SourceCounts[j].Count {
			return dd.SourceCounts[i].Count > dd.SourceCounts[j].Count
		}
		return dd.SourceCounts[i].SourceResult < dd.SourceCounts[j].SourceResult
	})

	sortChronological(dd.Events)
	reverseKeepUnknownLast(dd.Events)
	return dd
}

// reverseKeepUnknownLast flips a chronologically sorted slice to newest
// first while keeping unknown-timestamp rows at the tail.
func reverseKeepUnknownLast(events []Event) {
	known := 0
	for known < len(events) && events[known].HasTimestamp() {
		known++
	}
	for i, j := 0, known-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
}
