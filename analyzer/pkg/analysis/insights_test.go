package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightByCode(insights []Insight, code string) (Insight, bool) {
	for _, in := range insights {
		if in.Code == code {
			return in, true
		}
	}
	return Insight{}, false
}

func TestBuildInsights_SeverityOrdering(t *testing.T) {
	report := &Report{
		RapidFireStats: []RapidFireStats{
			{NIK: "1", Hits: 7, Level: LevelFraudRisk},
			{NIK: "2", Hits: 4, Level: LevelSuspicious},
		},
		Degradations: []DegradationFinding{{NIK: "3", Field: "Nama"}},
		Sources: []SourceScore{
			{SourceResult: SourceDukcapil, TotalRequests: 10, UniqueNIKs: 5, CostEfficiency: 0.5, DuplicateRate: 0.5},
			{SourceResult: SourceBCA, TotalRequests: 4, UniqueNIKs: 4, CostEfficiency: 1, DuplicateRate: 0},
		},
	}
	insights := BuildInsights(report)
	require.NotEmpty(t, insights)

	last := 0
	for _, in := range insights {
		rank := severityRank[in.Severity]
		assert.GreaterOrEqual(t, rank, last, "insights must be ordered critical, warning, informational")
		last = rank
	}
	assert.Equal(t, "rapid_fire_fraud_risk", insights[0].Code)
}

func TestBuildInsights_SourceExtremes(t *testing.T) {
	report := &Report{
		Sources: []SourceScore{
			{SourceResult: SourceDukcapil, TotalRequests: 10, UniqueNIKs: 2, CostEfficiency: 0.2, DuplicateRate: 0.8},
			{SourceResult: SourceBCA, TotalRequests: 5, UniqueNIKs: 5, CostEfficiency: 1, DuplicateRate: 0},
		},
	}
	insights := BuildInsights(report)

	worst, ok := insightByCode(insights, "least_efficient_source")
	require.True(t, ok)
	assert.Contains(t, worst.Detail, SourceDukcapil)
	assert.Equal(t, SeverityWarning, worst.Severity)

	best, ok := insightByCode(insights, "most_efficient_source")
	require.True(t, ok)
	assert.Contains(t, best.Detail, SourceBCA)
	assert.Equal(t, SeverityInfo, best.Severity)
}

func TestBuildInsights_WorstFieldAndPeakHour(t *testing.T) {
	hourly := &HourlyReport{Buckets: make([]HourlyBucket, 24)}
	hourly.Buckets[9] = HourlyBucket{Hour: 9, Count: 40}

	report := &Report{
		Hourly: hourly,
		Overview: &Overview{
			FieldRecap: []FieldStatusRecap{
				{Field: "Nama", Match: 9, Mismatch: 1},
				{Field: "Kelurahan", Match: 2, Mismatch: 8},
			},
		},
	}
	insights := BuildInsights(report)

	field, ok := insightByCode(insights, "worst_field")
	require.True(t, ok)
	assert.Contains(t, field.Detail, "Kelurahan")

	peak, ok := insightByCode(insights, "peak_hour")
	require.True(t, ok)
	assert.Contains(t, peak.Detail, "09:00")
}

func TestBuildInsights_UnclassifiedAudit(t *testing.T) {
	report := &Report{
		Classification: &ClassificationResult{
			EligibleNIKs: 3,
			EligibleRows: 7,
			EntityCounts: map[Classification]int{
				ClassDirectCache:  2,
				ClassUnclassified: 1,
			},
		},
	}
	insights := BuildInsights(report)

	audit, ok := insightByCode(insights, "cache_unclassified")
	require.True(t, ok, "unclassified-with-cache entities must be surfaced, not dropped")
	assert.Contains(t, audit.Detail, "1 NIK(s)")
}

func TestBuildInsights_EmptyReport(t *testing.T) {
	assert.Empty(t, BuildInsights(&Report{}))
}
