package analysis

import (
	"fmt"
	"sort"
)

// Severity grades an insight for the presentation layer.
type Severity string

const (
	SeverityInfo     Severity = "informational"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityWarning:  1,
	SeverityInfo:     2,
}

// Insight is one ranked, human-readable finding composed from the analyzer
// outputs. This is a read-only view composition: no further computation
// happens here beyond selecting extremes and counting.
type Insight struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
}

// BuildInsights combines the analyzer outputs into an ordered finding list:
// critical first, then warnings, then informational, stable by code within
// a severity. It must only run after every analyzer has completed.
func BuildInsights(r *Report) []Insight {
	insights := []Insight{}
	add := func(sev Severity, code, title, format string, args ...interface{}) {
		insights = append(insights, Insight{
			Severity: sev,
			Code:     code,
			Title:    title,
			Detail:   fmt.Sprintf(format, args...),
		})
	}

	// Fraud-risk and suspicious rapid-fire entities.
	var fraudRisk, suspicious int
	for _, s := range r.RapidFireStats {
		switch s.Level {
		case LevelFraudRisk:
			fraudRisk++
		case LevelSuspicious:
			suspicious++
		}
	}
	if fraudRisk > 0 {
		add(SeverityCritical, "rapid_fire_fraud_risk", "Fraud-risk rapid-fire entities",
			"%d NIK(s) exceeded %d rapid-fire hits inside the %s window", fraudRisk, FraudRiskHitCount, "rapid-fire")
	}
	if suspicious > 0 {
		add(SeverityWarning, "rapid_fire_suspicious", "Suspicious automated traffic",
			"%d NIK(s) exceeded %d rapid-fire hits", suspicious, SuspiciousHitCount)
	}

	if n := len(r.Degradations); n > 0 {
		add(SeverityWarning, "field_degradations", "Field status degradations",
			"%d field transition(s) from %s to %s across repeat verifications", n, StatusMatch, StatusMismatch)
	}
	if n := len(r.Disagreements); n > 0 {
		add(SeverityWarning, "source_disagreements", "Cross-source disagreements",
			"%d field(s) where sources report different modal statuses for the same NIK", n)
	}
	if r.Hourly != nil && r.Hourly.Spikes > 0 {
		add(SeverityWarning, "hourly_spikes", "Hourly volume spikes",
			"%d hour bucket(s) above mean + sigma*stddev (mean %.1f, stddev %.1f)",
			r.Hourly.Spikes, r.Hourly.Mean, r.Hourly.StdDev)
	}

	// Cost-efficiency extremes.
	if len(r.Sources) > 0 {
		worst, best := r.Sources[0], r.Sources[0]
		for _, s := range r.Sources[1:] {
			if s.CostEfficiency < worst.CostEfficiency {
				worst = s
			}
			if s.CostEfficiency > best.CostEfficiency {
				best = s
			}
		}
		add(SeverityWarning, "least_efficient_source", "Least cost-efficient source",
			"%s serves %d unique NIK(s) over %d request(s) (efficiency %.2f, duplicate rate %.2f)",
			worst.SourceResult, worst.UniqueNIKs, worst.TotalRequests, worst.CostEfficiency, worst.DuplicateRate)
		add(SeverityInfo, "most_efficient_source", "Most cost-efficient source",
			"%s at efficiency %.2f over %d request(s)", best.SourceResult, best.CostEfficiency, best.TotalRequests)
	}

	// Worst-matching tracked field.
	if r.Overview != nil && len(r.Overview.FieldRecap) > 0 {
		worst := r.Overview.FieldRecap[0]
		for _, f := range r.Overview.FieldRecap[1:] {
			if f.MatchRate() < worst.MatchRate() {
				worst = f
			}
		}
		add(SeverityWarning, "worst_field", "Lowest field match rate",
			"%s matches in %.1f%% of rows (%d mismatch, %d missing)",
			worst.Field, worst.MatchRate()*100, worst.Mismatch, worst.Missing)
	}

	// Peak hour.
	if r.Hourly != nil {
		if peak, ok := r.Hourly.PeakHour(); ok {
			add(SeverityInfo, "peak_hour", "Busiest hour",
				"%02d:00 with %d request(s)", peak.Hour, peak.Count)
		}
	}

	// Classification audit counts.
	if r.Classification != nil && r.Classification.EligibleNIKs > 0 {
		c := r.Classification
		add(SeverityInfo, "cache_classification", "Cache attribution summary",
			"%d cache-eligible NIK(s) over %d row(s); direct=%d via_bca=%d via_dukcapil=%d via_dukcapil_bca=%d",
			c.EligibleNIKs, c.EligibleRows,
			c.EntityCounts[ClassDirectCache], c.EntityCounts[ClassCacheViaBCA],
			c.EntityCounts[ClassCacheViaDukcapil], c.EntityCounts[ClassCacheViaDukcapilThenBCA])
		if n := c.EntityCounts[ClassUnclassified]; n > 0 {
			add(SeverityInfo, "cache_unclassified", "Unclassified cache-eligible entities",
				"%d NIK(s) hold a DB_CACHE row but match no attribution pattern", n)
		}
	}

	sort.SliceStable(insights, func(i, j int) bool {
		if severityRank[insights[i].Severity] != severityRank[insights[j].Severity] {
			return severityRank[insights[i].Severity] < severityRank[insights[j].Severity]
		}
		return insights[i].Code < insights[j].Code
	})
	return insights
}
