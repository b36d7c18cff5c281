package analysis

import "sort"

// SourceScore is the per-source performance and cost-efficiency summary.
// CostEfficiency is distinct NIKs over total requests, bounded (0, 1]:
// every request past the first for the same NIK is a duplicate the source
// was paid for twice. DuplicateRate is its exact complement.
type SourceScore struct {
	SourceResult   string  `json:"source_result"`
	TotalRequests  int     `json:"total_requests"`
	UniqueNIKs     int     `json:"unique_niks"`
	QualityScore   float64 `json:"quality_score"`
	CostEfficiency float64 `json:"cost_efficiency"`
	DuplicateRate  float64 `json:"duplicate_rate"`
}

// ScoreSources computes point estimates per SourceResult present in the
// snapshot. QualityScore is the fraction of (row, tracked-field) cells equal
// to Sesuai. Sources with zero rows simply do not appear, so the division is
// never undefined. Results are ordered by request volume, name on ties.
func ScoreSources(snap *Snapshot) []SourceScore {
	type tally struct {
		rows    int
		niks    map[string]bool
		matched int
	}
	tallies := map[string]*tally{}

	for _, e := range snap.Events {
		t := tallies[e.SourceResult]
		if t == nil {
			t = &tally{niks: map[string]bool{}}
			tallies[e.SourceResult] = t
		}
		t.rows++
		t.niks[e.NIK] = true
		for _, field := range TrackedFields {
			if e.Status(field) == StatusMatch {
				t.matched++
			}
		}
	}

	scores := make([]SourceScore, 0, len(tallies))
	for source, t := range tallies {
		efficiency := float64(len(t.niks)) / float64(t.rows)
		scores = append(scores, SourceScore{
			SourceResult:   source,
			TotalRequests:  t.rows,
			UniqueNIKs:     len(t.niks),
			QualityScore:   float64(t.matched) / float64(t.rows*len(TrackedFields)),
			CostEfficiency: efficiency,
			DuplicateRate:  1 - efficiency,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].TotalRequests != scores[j].TotalRequests {
			return scores[i].TotalRequests > scores[j].TotalRequests
		}
		return scores[i].SourceResult < scores[j].SourceResult
	})
	return scores
}
