package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sentrakyc/veriwatch/analyzer/pkg/analysis"
	"github.com/sentrakyc/veriwatch/cli/pkg/output"
)

var nikCmd = &cobra.Command{
	Use:   "nik [nik]",
	Short: "Drill down into a single NIK",
	Long:  "Show every verification hit for one NIK, newest first, with per-source counts.",
	Args:  cobra.ExactArgs(1),
	RunE:  runNIK,
}

func init() {
	rootCmd.AddCommand(nikCmd)
}

func runNIK(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	dd := analysis.DrillDownNIK(snap, args[0])

	if outputFormat != "table" {
		return output.Render(outputFormat, dd)
	}

	if dd.TotalHits == 0 {
		output.Warn("no events found for NIK %s", args[0])
		return nil
	}

	output.Info("NIK %s: %d hit(s)", dd.NIK, dd.TotalHits)
	for _, sc := range dd.SourceCounts {
		output.Info("  %s: %d", sc.SourceResult, sc.Count)
	}
	fmt.Println()

	table := output.NewTable("CREATED", "SOURCE", "APP", "MISMATCHED FIELDS")
	for _, e := range dd.Events {
		created := "unknown"
		if e.HasTimestamp() {
			created = e.CreatedAt.Format("2006-01-02 15:04:05")
		}
		table.AddRow(created, e.SourceResult, e.SourceApp, strings.Join(mismatchedFields(e), ", "))
	}
	table.Render()
	return nil
}

func mismatchedFields(e analysis.Event) []string {
	var fields []string
	for _, f := range analysis.TrackedFields {
		if e.Status(f) == analysis.StatusMismatch {
			fields = append(fields, f)
		}
	}
	return fields
}
