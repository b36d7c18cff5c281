// Package analysis implements the veriwatch analytical core: deterministic
// classification and aggregation over a static snapshot of NIK verification
// events. All functions are pure; they never mutate their input and produce
// identical results for any permutation of the same event set.
package analysis

import (
	"fmt"
	"sort"
	"time"
)

// Field status values reported by the verification backends.
const (
	StatusMatch    = "Sesuai"
	StatusMismatch = "Tidak Sesuai"
	StatusMissing  = "-"
)

// Source results observed in verification logs. The set is open: values
// outside this list pass through unclassified.
const (
	SourceCache    = "DB_CACHE"
	SourceDukcapil = "DUKCAPIL"
	SourceBCA      = "BCA"
)

// TrackedFields is the fixed set of demographic fields compared against the
// registry. It is known at configuration time, never inferred per row.
var TrackedFields = []string{
	"NamaDenganGelar",
	"Nama",
	"JenisKelamin",
	"TempatLahir",
	"TglLahir",
	"Provinsi",
	"Kabupaten",
	"Kecamatan",
	"Kelurahan",
}

// Event is one verification attempt. Events are immutable once ingested.
// NIK plus CreatedAt does not uniquely identify an event; duplicates are
// permitted. A zero CreatedAt is the "unknown timestamp" sentinel: it sorts
// after every known timestamp and is excluded from time-windowed analyses.
type Event struct {
	ID            string            `json:"id"`
	NIK           string            `json:"nik"`
	CreatedAt     time.Time         `json:"created_at"`
	SourceResult  string            `json:"source_result"`
	SourceApp     string            `json:"source_app"`
	FieldStatuses map[string]string `json:"field_statuses"`
}

// HasTimestamp reports whether the event carries a parseable timestamp.
func (e *Event) HasTimestamp() bool {
	return !e.CreatedAt.IsZero()
}

// Status returns the recorded status for a tracked field, defaulting to the
// missing sentinel when the field was never evaluated.
func (e *Event) Status(field string) string {
	if s, ok := e.FieldStatuses[field]; ok && s != "" {
		return s
	}
	return StatusMissing
}

// Filter narrows the event set before analysis. SourceResults is an
// allow-list and must be non-empty. From and To bound the calendar date of
// CreatedAt inclusively; a zero value leaves that side unbounded.
type Filter struct {
	SourceResults []string  `json:"source_results"`
	From          time.Time `json:"from,omitempty"`
	To            time.Time `json:"to,omitempty"`
}

// Skip reasons recorded while filtering. Skipped rows are counted, never
// silently absorbed.
const (
	SkipSourceExcluded   = "source_excluded"
	SkipOutsideDateRange = "outside_date_range"
	SkipUnknownTimestamp = "unknown_timestamp"
)

// Snapshot is the immutable filtered event set every analyzer operates on.
type Snapshot struct {
	Events  []Event        `json:"events"`
	Skipped map[string]int `json:"skipped"`
}

// TotalRows returns the number of events that survived filtering.
func (s *Snapshot) TotalRows() int {
	return len(s.Events)
}

// ErrEmptySourceFilter is returned when the source allow-list is empty.
var ErrEmptySourceFilter = fmt.Errorf("filter: source allow-list must not be empty")

// ApplyFilter builds the analysis snapshot. Rows whose SourceResult is not
// in the allow-list are dropped. When a date range is set, rows with an
// unknown timestamp cannot be placed in the range and are dropped too; with
// no range they are retained for the analyses that do not need ordering.
// An empty result is valid, not an error.
func ApplyFilter(events []Event, f Filter) (*Snapshot, error) {
	if len(f.SourceResults) == 0 {
		return nil, ErrEmptySourceFilter
	}

	allowed := make(map[string]bool, len(f.SourceResults))
	for _, s := range f.SourceResults {
		allowed[s] = true
	}
	hasRange := !f.From.IsZero() || !f.To.IsZero()

	snap := &Snapshot{
		Events:  make([]Event, 0, len(events)),
		Skipped: map[string]int{},
	}
	for _, e := range events {
		if !allowed[e.SourceResult] {
			snap.Skipped[SkipSourceExcluded]++
			continue
		}
		if hasRange {
			if !e.HasTimestamp() {
				snap.Skipped[SkipUnknownTimestamp]++
				continue
			}
			d := dateOf(e.CreatedAt)
			if !f.From.IsZero() && d.Before(dateOf(f.From)) {
				snap.Skipped[SkipOutsideDateRange]++
				continue
			}
			if !f.To.IsZero() && d.After(dateOf(f.To)) {
				snap.Skipped[SkipOutsideDateRange]++
				continue
			}
		}
		snap.Events = append(snap.Events, e)
	}
	return snap, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// groupByNIK buckets snapshot events by entity. Order within a bucket is
// whatever the snapshot holds; callers that need ordering sort explicitly.
func groupByNIK(events []Event) map[string][]Event {
	groups := make(map[string][]Event)
	for _, e := range events {
		groups[e.NIK] = append(groups[e.NIK], e)
	}
	return groups
}

// sortChronological orders events by CreatedAt ascending with the event ID
// as tiebreak. Unknown timestamps sort after every known one, by ID among
// themselves. This explicit key is what makes every sequence-sensitive
// analysis reproducible under input permutation.
func sortChronological(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		switch {
		case a.HasTimestamp() && !b.HasTimestamp():
			return true
		case !a.HasTimestamp() && b.HasTimestamp():
			return false
		case !a.CreatedAt.Equal(b.CreatedAt):
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.ID < b.ID
		}
	})
}

// SortEvents orders events with the canonical chronological key used
// throughout the package.
func SortEvents(events []Event) {
	sortChronological(events)
}

// sortedNIKs returns the group keys in ascending order so per-entity output
// is stable.
func sortedNIKs(groups map[string][]Event) []string {
	niks := make([]string, 0, len(groups))
	for nik := range groups {
		niks = append(niks, nik)
	}
	sort.Strings(niks)
	return niks
}
