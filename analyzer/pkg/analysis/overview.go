package analysis

import (
	"sort"
	"time"
)

// DefaultRepeatTopN bounds the repeat-NIK leaderboard.
const DefaultRepeatTopN = 50

// SourceHitDistribution splits a source's entities into single-hit and
// repeat-hit NIKs, alongside its raw request volume.
type SourceHitDistribution struct {
	SourceResult  string `json:"source_result"`
	SingleHitNIKs int    `json:"single_hit_niks"`
	RepeatNIKs    int    `json:"repeat_niks"`
	TotalRequests int    `json:"total_requests"`
}

// FieldStatusRecap counts the three status values for one tracked field.
type FieldStatusRecap struct {
	Field    string `json:"field"`
	Match    int    `json:"match"`
	Mismatch int    `json:"mismatch"`
	Missing  int    `json:"missing"`
}

// MatchRate is the fraction of rows where the field matched the registry.
func (r FieldStatusRecap) MatchRate() float64 {
	total := r.Match + r.Mismatch + r.Missing
	if total == 0 {
		return 0
	}
	return float64(r.Match) / float64(total)
}

// RepeatNIK is one leaderboard entry: an entity verified more than once.
type RepeatNIK struct {
	NIK      string `json:"nik"`
	Requests int    `json:"requests"`
}

// DateCount is the request volume for one calendar date (UTC, 2006-01-02).
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DayCount is the request volume for one day of week.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// weekdays in the dashboard's fixed Monday-first order.
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Overview is the KPI and distribution summary of the filtered snapshot.
type Overview struct {
	TotalRequests      int                     `json:"total_requests"`
	TotalNIKs          int                     `json:"total_niks"`
	SingleHitNIKs      int                     `json:"single_hit_niks"`
	RepeatHitNIKs      int                     `json:"repeat_hit_niks"`
	SingleHitPct       float64                 `json:"single_hit_pct"`
	RepeatHitPct       float64                 `json:"repeat_hit_pct"`
	SourceDistribution []SourceHitDistribution `json:"source_distribution"`
	FieldRecap         []FieldStatusRecap      `json:"field_recap"`
	RepeatLeaders      []RepeatNIK             `json:"repeat_leaders"`
	DailyTrend         []DateCount             `json:"daily_trend"`
	DayOfWeek          []DayCount              `json:"day_of_week"`
}

// BuildOverview computes the dashboard KPIs: hit-count splits per entity and
// per source, field status recap, the repeat-NIK leaderboard (top topN, most
// requests first, NIK ascending on ties) and the daily / day-of-week trends.
// Rows without a timestamp count toward totals but not toward the trends.
func BuildOverview(snap *Snapshot, topN int) *Overview {
	if topN <= 0 {
		topN = DefaultRepeatTopN
	}

	ov := &Overview{TotalRequests: len(snap.Events)}

	// Per-entity hit counts.
	hits := map[string]int{}
	for _, e := range snap.Events {
		hits[e.NIK]++
	}
	ov.TotalNIKs = len(hits)
	for _, n := range hits {
		if n == 1 {
			ov.SingleHitNIKs++
		} else {
			ov.RepeatHitNIKs++
		}
	}
	if ov.TotalNIKs > 0 {
		ov.SingleHitPct = float64(ov.SingleHitNIKs) / float64(ov.TotalNIKs)
		ov.RepeatHitPct = float64(ov.RepeatHitNIKs) / float64(ov.TotalNIKs)
	}

	// Per-source NIK hit distribution.
	type srcTally struct {
		rows int
		hits map[string]int
	}
	perSource := map[string]*srcTally{}
	for _, e := range snap.Events {
		t := perSource[e.SourceResult]
		if t == nil {
			t = &srcTally{hits: map[string]int{}}
			perSource[e.SourceResult] = t
		}
		t.rows++
		t.hits[e.NIK]++
	}
	for source, t := range perSource {
		d := SourceHitDistribution{SourceResult: source, TotalRequests: t.rows}
		for _, n := range t.hits {
			if n == 1 {
				d.SingleHitNIKs++
			} else {
				d.RepeatNIKs++
			}
		}
		ov.SourceDistribution = append(ov.SourceDistribution, d)
	}
	sort.SliceStable(ov.SourceDistribution, func(i, j int) bool {
		a, b := ov.SourceDistribution[i], ov.SourceDistribution[j]
		if a.TotalRequests != b.TotalRequests {
			return a.TotalRequests > b.TotalRequests
		}
		return a.SourceResult < b.SourceResult
	})

	// Field status recap.
	for _, field := range TrackedFields {
		recap := FieldStatusRecap{Field: field}
		for _, e := range snap.Events {
			switch e.Status(field) {
			case StatusMatch:
				recap.Match++
			case StatusMismatch:
				recap.Mismatch++
			default:
				recap.Missing++
			}
		}
		ov.FieldRecap = append(ov.FieldRecap, recap)
	}

	// Repeat-NIK leaderboard.
	for nik, n := range hits {
		if n > 1 {
			ov.RepeatLeaders = append(ov.RepeatLeaders, RepeatNIK{NIK: nik, Requests: n})
		}
	}
	sort.SliceStable(ov.RepeatLeaders, func(i, j int) bool {
		if ov.RepeatLeaders[i].Requests != ov.RepeatLeaders[j].Requests {
			return ov.RepeatLeaders[i].Requests > ov.RepeatLeaders[j].Requests
		}
		return ov.RepeatLeaders[i].NIK < ov.RepeatLeaders[j].NIK
	})
	if len(ov.RepeatLeaders) > topN {
		ov.RepeatLeaders = ov.RepeatLeaders[:topN]
	}

	// Trends over timestamped rows only.
	daily := map[string]int{}
	dow := map[time.Weekday]int{}
	for _, e := range snap.Events {
		if !e.HasTimestamp() {
			continue
		}
		daily[e.CreatedAt.Format("2006-01-02")]++
		dow[e.CreatedAt.Weekday()]++
	}
	for date, count := range daily {
		ov.DailyTrend = append(ov.DailyTrend, DateCount{Date: date, Count: count})
	}
	sort.SliceStable(ov.DailyTrend, func(i, j int) bool {
		return ov.DailyTrend[i].Date < ov.DailyTrend[j].Date
	})
	for _, day := range weekdays {
		ov.DayOfWeek = append(ov.DayOfWeek, DayCount{Day: day.String(), Count: dow[day]})
	}

	return ov
}
