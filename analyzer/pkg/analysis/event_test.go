package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFilter_EmptyAllowListRejected(t *testing.T) {
	_, err := ApplyFilter([]Event{evt("a", "1", base, SourceCache)}, Filter{})
	assert.ErrorIs(t, err, ErrEmptySourceFilter)
}

func TestApplyFilter_SourceAllowList(t *testing.T) {
	snap, err := ApplyFilter([]Event{
		evt("a", "1", base, SourceCache),
		evt("b", "1", base, SourceDukcapil),
		evt("c", "1", base, SourceBCA),
	}, Filter{SourceResults: []string{SourceCache, SourceBCA}})
	require.NoError(t, err)

	assert.Len(t, snap.Events, 2)
	assert.Equal(t, 1, snap.Skipped[SkipSourceExcluded])
}

func TestApplyFilter_InclusiveDateRange(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 23, 59, 59, 0, time.UTC) }
	events := []Event{
		evt("a", "1", day(9), SourceCache),
		evt("b", "1", day(10), SourceCache),
		evt("c", "1", day(12), SourceCache),
		evt("d", "1", day(13), SourceCache),
	}
	snap, err := ApplyFilter(events, Filter{
		SourceResults: []string{SourceCache},
		From:          time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		To:            time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, snap.Events, 2)
	assert.Equal(t, "b", snap.Events[0].ID, "boundary dates are inclusive")
	assert.Equal(t, "c", snap.Events[1].ID)
	assert.Equal(t, 2, snap.Skipped[SkipOutsideDateRange])
}

func TestApplyFilter_UnknownTimestampWithDateRange(t *testing.T) {
	events := []Event{
		evt("a", "1", time.Time{}, SourceCache),
		evt("b", "1", base, SourceCache),
	}

	// With a range the unknown-time row cannot be placed and is skipped.
	snap, err := ApplyFilter(events, Filter{
		SourceResults: []string{SourceCache},
		From:          base.AddDate(0, 0, -1),
	})
	require.NoError(t, err)
	assert.Len(t, snap.Events, 1)
	assert.Equal(t, 1, snap.Skipped[SkipUnknownTimestamp])

	// Without a range it is retained for order-insensitive analyses.
	snap, err = ApplyFilter(events, Filter{SourceResults: []string{SourceCache}})
	require.NoError(t, err)
	assert.Len(t, snap.Events, 2)
	assert.Zero(t, snap.Skipped[SkipUnknownTimestamp])
}

func TestApplyFilter_EmptyResultIsValid(t *testing.T) {
	snap, err := ApplyFilter([]Event{evt("a", "1", base, SourceDukcapil)},
		Filter{SourceResults: []string{SourceBCA}})
	require.NoError(t, err)
	assert.Zero(t, snap.TotalRows())
}

func TestEventStatus_DefaultsToMissing(t *testing.T) {
	e := evt("a", "1", base, SourceCache)
	assert.Equal(t, StatusMissing, e.Status("Nama"))

	e.FieldStatuses = map[string]string{"Nama": StatusMatch, "Provinsi": ""}
	assert.Equal(t, StatusMatch, e.Status("Nama"))
	assert.Equal(t, StatusMissing, e.Status("Provinsi"))
}

func TestSortChronological_ExplicitKey(t *testing.T) {
	events := []Event{
		evt("b", "1", base, SourceCache),
		evt("a", "1", base, SourceCache),
		evt("z", "1", time.Time{}, SourceCache),
		evt("y", "1", time.Time{}, SourceCache),
		evt("c", "1", base.Add(-time.Hour), SourceCache),
	}
	sortChronological(events)

	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	// Earliest first, ID tiebreak, unknown timestamps last ordered by ID.
	assert.Equal(t, []string{"c", "a", "b", "y", "z"}, ids)
}
