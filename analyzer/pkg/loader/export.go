package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sentrakyc/veriwatch/analyzer/pkg/analysis"
)

const exportTimeLayout = "2006-01-02 15:04:05"

// WriteDegradations exports the full degradation log as CSV, the audit
// trail for "why did a previously-matching field stop matching".
func WriteDegradations(w io.Writer, findings []analysis.DegradationFinding) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Nik", "Field", "FromStatus", "ToStatus", "FromAt", "ToAt",
		"ElapsedHours", "FromSource", "ToSource", "FromApp", "ToApp",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("loader: write header: %w", err)
	}
	for _, f := range findings {
		record := []string{
			f.NIK, f.Field, f.FromStatus, f.ToStatus,
			f.FromAt.UTC().Format(exportTimeLayout),
			f.ToAt.UTC().Format(exportTimeLayout),
			strconv.FormatFloat(f.ElapsedHours, 'f', 2, 64),
			f.FromSource, f.ToSource, f.FromApp, f.ToApp,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("loader: write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEvents exports events in the same column layout Load consumes, so a
// seeded log round-trips through the loader unchanged.
func WriteEvents(w io.Writer, events []analysis.Event) error {
	cw := csv.NewWriter(w)

	header := []string{ColumnID, ColumnNIK, ColumnCreatedDate, ColumnSourceResult, ColumnSourceApp}
	header = append(header, analysis.TrackedFields...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("loader: write header: %w", err)
	}

	for _, e := range events {
		created := ""
		if e.HasTimestamp() {
			created = e.CreatedAt.UTC().Format(exportTimeLayout)
		}
		record := []string{e.ID, e.NIK, created, e.SourceResult, e.SourceApp}
		for _, field := range analysis.TrackedFields {
			record = append(record, e.Status(field))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("loader: write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
