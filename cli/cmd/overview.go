package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sentrakyc/veriwatch/analyzer/pkg/analysis"
	"github.com/sentrakyc/veriwatch/cli/pkg/output"
)

var overviewTopN int

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Print dataset KPIs and distributions",
	Long: `Summarize the filtered log: entity hit splits, per-source hit
distribution, field status recap, the repeat-NIK leaderboard and the daily
and day-of-week request trends.`,
	RunE: runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	overviewCmd.Flags().IntVar(&overviewTopN, "top", analysis.DefaultRepeatTopN, "repeat-NIK leaderboard size")
}

func runOverview(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	ov := analysis.BuildOverview(snap, overviewTopN)

	if outputFormat != "table" {
		return output.Render(outputFormat, ov)
	}

	output.Info("Requests: %d   NIKs: %d   single-hit: %d (%.1f%%)   repeat: %d (%.1f%%)",
		ov.TotalRequests, ov.TotalNIKs,
		ov.SingleHitNIKs, ov.SingleHitPct*100,
		ov.RepeatHitNIKs, ov.RepeatHitPct*100)
	fmt.Println()

	output.Info("Per-source hit distribution")
	srcTable := output.NewTable("SOURCE", "REQUESTS", "SINGLE-HIT NIKS", "REPEAT NIKS")
	for _, d := range ov.SourceDistribution {
		srcTable.AddRow(d.SourceResult,
			fmt.Sprintf("%d", d.TotalRequests),
			fmt.Sprintf("%d", d.SingleHitNIKs),
			fmt.Sprintf("%d", d.RepeatNIKs))
	}
	srcTable.Render()
	fmt.Println()

	output.Info("Field status recap")
	fieldTable := output.NewTable("FIELD", "MATCH", "MISMATCH", "MISSING", "MATCH RATE")
	for _, f := range ov.FieldRecap {
		fieldTable.AddRow(f.Field,
			fmt.Sprintf("%d", f.Match),
			fmt.Sprintf("%d", f.Mismatch),
			fmt.Sprintf("%d", f.Missing),
			fmt.Sprintf("%.1f%%", f.MatchRate()*100))
	}
	fieldTable.Render()
	fmt.Println()

	if len(ov.RepeatLeaders) > 0 {
		output.Info("Top repeat NIKs")
		repeatTable := output.NewTable("NIK", "REQUESTS")
		for _, r := range ov.RepeatLeaders {
			repeatTable.AddRow(r.NIK, fmt.Sprintf("%d", r.Requests))
		}
		repeatTable.Render()
		fmt.Println()
	}

	output.Info("Requests by day of week")
	dowTable := output.NewTable("DAY", "REQUESTS")
	for _, d := range ov.DayOfWeek {
		dowTable.AddRow(d.Day, fmt.Sprintf("%d", d.Count))
	}
	dowTable.Render()

	return nil
}
