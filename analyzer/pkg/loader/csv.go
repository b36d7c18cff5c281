// Package loader adapts delimited verification-log exports to the analysis
// event model and writes tabular results back out. It is the only place that
// knows about column names and timestamp layouts; everything past it works
// on typed events.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sentrakyc/veriwatch/analyzer/pkg/analysis"
)

// Log export column names. Matching is exact after trimming whitespace.
const (
	ColumnID           = "Id"
	ColumnNIK          = "Nik"
	ColumnCreatedDate  = "CreatedDate"
	ColumnSourceResult = "SourceResult"
	ColumnSourceApp    = "SourceApp"
)

var requiredColumns = []string{ColumnNIK, ColumnCreatedDate, ColumnSourceResult}

// timestampLayouts are tried in order when parsing CreatedDate.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

// MissingColumnError aborts a load before any analysis: a required column
// is absent from the export header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("loader: required column %q is missing", e.Column)
}

// Result is a loaded event set plus the per-row skip audit.
type Result struct {
	Events []analysis.Event
	// UnparseableTimestamps counts rows whose CreatedDate did not parse.
	// Those rows are kept with the unknown-timestamp sentinel, not dropped.
	UnparseableTimestamps int
}

// LoadFile reads a CSV verification log from disk.
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a CSV verification log. The first record is the header; column
// names are trimmed before matching. Tracked-field columns are optional and
// default to the missing sentinel, as does SourceApp. Rows with an
// unparseable CreatedDate get the zero-time sentinel and are counted.
func Load(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("loader: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("loader: read header: %w", err)
	}

	index := map[string]int{}
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}

	cell := func(record []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	res := &Result{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: read record: %w", err)
		}

		e := analysis.Event{
			ID:            cell(record, ColumnID),
			NIK:           cell(record, ColumnNIK),
			SourceResult:  cell(record, ColumnSourceResult),
			SourceApp:     cell(record, ColumnSourceApp),
			FieldStatuses: map[string]string{},
		}
		if e.ID == "" {
			e.ID = uuid.New().String()
		}

		if raw := cell(record, ColumnCreatedDate); raw != "" {
			if at, ok := parseTimestamp(raw); ok {
				e.CreatedAt = at
			} else {
				res.UnparseableTimestamps++
			}
		} else {
			res.UnparseableTimestamps++
		}

		for _, field := range analysis.TrackedFields {
			if v := cell(record, field); v != "" {
				e.FieldStatuses[field] = v
			} else {
				e.FieldStatuses[field] = analysis.StatusMissing
			}
		}

		res.Events = append(res.Events, e)
	}
	return res, nil
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if at, err := time.Parse(layout, raw); err == nil {
			return at.UTC(), true
		}
	}
	return time.Time{}, false
}
