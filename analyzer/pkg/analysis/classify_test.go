package analysis

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func evt(id, nik string, at time.Time, source string) Event {
	return Event{ID: id, NIK: nik, CreatedAt: at, SourceResult: source, SourceApp: "portal"}
}

func snapOf(events ...Event) *Snapshot {
	return &Snapshot{Events: events, Skipped: map[string]int{}}
}

func TestClassifySequences_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   Classification
		rows   int
	}{
		{
			name: "dukcapil then bca then cache",
			events: []Event{
				evt("e1", "1", base, SourceDukcapil),
				evt("e2", "1", base.Add(10*time.Second), SourceBCA),
				evt("e3", "1", base.Add(20*time.Second), SourceCache),
			},
			want: ClassCacheViaDukcapilThenBCA,
			rows: 3,
		},
		{
			name:   "single cache event is direct",
			events: []Event{evt("e1", "2", base, SourceCache)},
			want:   ClassDirectCache,
			rows:   1,
		},
		{
			name: "bca then cache",
			events: []Event{
				evt("e1", "3", base, SourceBCA),
				evt("e2", "3", base.Add(time.Second), SourceCache),
			},
			want: ClassCacheViaBCA,
			rows: 2,
		},
		{
			name: "dukcapil then cache",
			events: []Event{
				evt("e1", "4", base, SourceDukcapil),
				evt("e2", "4", base.Add(time.Minute), SourceCache),
			},
			want: ClassCacheViaDukcapil,
			rows: 2,
		},
		{
			name: "cache before registry lookup is unclassified",
			events: []Event{
				evt("e1", "5", base, SourceCache),
				evt("e2", "5", base.Add(time.Minute), SourceBCA),
			},
			want: ClassUnclassified,
			rows: 2,
		},
		{
			name: "both registries in wrong order is unclassified",
			events: []Event{
				evt("e1", "6", base, SourceBCA),
				evt("e2", "6", base.Add(time.Second), SourceDukcapil),
				evt("e3", "6", base.Add(2*time.Second), SourceCache),
			},
			want: ClassUnclassified,
			rows: 3,
		},
		{
			name: "repeated cache hits with prior bca",
			events: []Event{
				evt("e1", "7", base, SourceBCA),
				evt("e2", "7", base.Add(time.Second), SourceCache),
				evt("e3", "7", base.Add(2*time.Second), SourceCache),
			},
			want: ClassCacheViaBCA,
			rows: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ClassifySequences(snapOf(tt.events...))
			nik := tt.events[0].NIK
			require.Contains(t, res.ByNIK, nik)
			assert.Equal(t, tt.want, res.ByNIK[nik])
			assert.Equal(t, tt.rows, res.RowCounts[tt.want])
			assert.Equal(t, 1, res.EntityCounts[tt.want])
		})
	}
}

func TestClassifySequences_IneligibleWithoutCache(t *testing.T) {
	res := ClassifySequences(snapOf(
		evt("e1", "9", base, SourceDukcapil),
		evt("e2", "9", base.Add(time.Second), SourceBCA),
	))
	assert.NotContains(t, res.ByNIK, "9")
	assert.Zero(t, res.EligibleNIKs)
	assert.Zero(t, res.EligibleRows)
}

func TestClassifySequences_UnknownSourcePassesThrough(t *testing.T) {
	res := ClassifySequences(snapOf(
		evt("e1", "9", base, "KTP_READER"),
		evt("e2", "9", base.Add(time.Second), SourceCache),
	))
	// Eligible (holds DB_CACHE) but matches no pattern.
	assert.Equal(t, ClassUnclassified, res.ByNIK["9"])
}

func TestClassifySequences_ExclusivityAndConservation(t *testing.T) {
	events := []Event{}
	addSeq := func(nik string, sources ...string) {
		for i, s := range sources {
			events = append(events, evt(fmt.Sprintf("%s-%d", nik, i), nik, base.Add(time.Duration(i)*time.Minute), s))
		}
	}
	addSeq("10", SourceCache)
	addSeq("11", SourceBCA, SourceCache)
	addSeq("12", SourceDukcapil, SourceCache)
	addSeq("13", SourceDukcapil, SourceBCA, SourceCache)
	addSeq("14", SourceCache, SourceDukcapil) // unclassified
	addSeq("15", SourceDukcapil)              // not eligible
	addSeq("16", SourceBCA, SourceBCA)        // not eligible

	res := ClassifySequences(snapOf(events...))

	// Every eligible NIK is assigned exactly one category.
	assert.Len(t, res.ByNIK, 5)
	assert.Equal(t, 5, res.EligibleNIKs)

	var entitySum, rowSum int
	for _, c := range Classifications {
		entitySum += res.EntityCounts[c]
		rowSum += res.RowCounts[c]
	}
	assert.Equal(t, res.EligibleNIKs, entitySum)
	assert.Equal(t, res.EligibleRows, rowSum, "row counts must conserve across categories")
	assert.Equal(t, 1+2+2+3+2, res.EligibleRows)
}

func TestClassifySequences_DeterministicUnderPermutation(t *testing.T) {
	events := []Event{
		evt("a", "20", base, SourceDukcapil),
		evt("b", "20", base.Add(time.Second), SourceBCA),
		evt("c", "20", base.Add(2*time.Second), SourceCache),
		evt("d", "21", base, SourceBCA),
		evt("e", "21", base.Add(time.Second), SourceCache),
		evt("f", "22", base, SourceCache),
	}

	want := ClassifySequences(snapOf(events...)).ByNIK

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 25; i++ {
		shuffled := append([]Event(nil), events...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := ClassifySequences(snapOf(shuffled...)).ByNIK
		require.Equal(t, want, got, "permutation %d changed classification", i)
	}
}

func TestClassifySequences_TimestampTieBrokenByID(t *testing.T) {
	// Same instant: ID ascending decides the sequence, so b(BCA) precedes
	// c(DB_CACHE) regardless of input order.
	res := ClassifySequences(snapOf(
		evt("c", "30", base, SourceCache),
		evt("b", "30", base, SourceBCA),
	))
	assert.Equal(t, ClassCacheViaBCA, res.ByNIK["30"])
}

func TestClassifySequences_UnknownTimestampSortsLast(t *testing.T) {
	unknown := evt("z", "31", time.Time{}, SourceCache)
	res := ClassifySequences(snapOf(
		unknown,
		evt("a", "31", base, SourceBCA),
	))
	// BCA (known time) precedes the unknown-time cache row.
	assert.Equal(t, ClassCacheViaBCA, res.ByNIK["31"])
}

func TestClassifySequences_EmptySnapshot(t *testing.T) {
	res := ClassifySequences(snapOf())
	assert.Empty(t, res.ByNIK)
	assert.Zero(t, res.EligibleRows)
}
