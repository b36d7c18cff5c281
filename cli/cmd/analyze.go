package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentrakyc/veriwatch/analyzer/pkg/analysis"
	"github.com/sentrakyc/veriwatch/cli/pkg/output"
)

var (
	analyzeWindow     time.Duration
	analyzeSpikeSigma float64
	analyzeTopN       int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis over a verification log",
	Long: `Run every detector over the filtered log and print the combined report.

Examples:
  # Full report as a set of tables
  vwatch analyze --data verification_log.csv

  # JSON report for March, cache and registry traffic only
  vwatch analyze --from 2025-03-01 --to 2025-03-31 --sources DB_CACHE,DUKCAPIL -o json

  # Tighter rapid-fire window
  vwatch analyze --rapid-fire-window 2s`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().DurationVar(&analyzeWindow, "rapid-fire-window", analysis.DefaultRapidFireWindow, "flag same-NIK requests arriving faster than this")
	analyzeCmd.Flags().Float64Var(&analyzeSpikeSigma, "spike-sigma", analysis.DefaultSpikeSigma, "z-score multiplier for hourly volume spikes")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top", analysis.DefaultRepeatTopN, "repeat-NIK leaderboard size")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	report := analysis.Analyze(snap, analysis.Options{
		RapidFireWindow: analyzeWindow,
		SpikeSigma:      analyzeSpikeSigma,
		RepeatTopN:      analyzeTopN,
	})

	if outputFormat != "table" {
		return output.Render(outputFormat, report)
	}

	renderReport(report)
	return nil
}

func renderReport(r *analysis.Report) {
	output.Info("Analyzed %d rows (%d skipped)", r.TotalRows, skippedTotal(r.SkippedRows))
	fmt.Println()

	if len(r.Insights) > 0 {
		output.Info("Insights")
		for _, in := range r.Insights {
			switch in.Severity {
			case analysis.SeverityCritical:
				output.Error("%s: %s", in.Title, in.Detail)
			case analysis.SeverityWarning:
				output.Warn("%s: %s", in.Title, in.Detail)
			default:
				output.Info("  %s: %s", in.Title, in.Detail)
			}
		}
		fmt.Println()
	}

	output.Info("Cache attribution (%d eligible NIKs, %d rows)",
		r.Classification.EligibleNIKs, r.Classification.EligibleRows)
	classTable := output.NewTable("CATEGORY", "NIKS", "ROWS")
	for _, class := range analysis.Classifications {
		classTable.AddRow(string(class),
			fmt.Sprintf("%d", r.Classification.EntityCounts[class]),
			fmt.Sprintf("%d", r.Classification.RowCounts[class]))
	}
	classTable.Render()
	fmt.Println()

	if len(r.RapidFireStats) > 0 {
		output.Info("Rapid-fire activity (window %s)", r.Options.RapidFireWindow)
		rfTable := output.NewTable("NIK", "HITS", "MEAN INTERVAL", "LEVEL")
		for _, s := range r.RapidFireStats {
			rfTable.AddRow(s.NIK,
				fmt.Sprintf("%d", s.Hits),
				fmt.Sprintf("%.3fs", s.MeanIntervalSeconds),
				s.Level)
		}
		rfTable.Render()
		fmt.Println()
	}

	output.Info("Source performance")
	srcTable := output.NewTable("SOURCE", "REQUESTS", "UNIQUE NIKS", "QUALITY", "EFFICIENCY", "DUP RATE")
	for _, s := range r.Sources {
		srcTable.AddRow(s.SourceResult,
			fmt.Sprintf("%d", s.TotalRequests),
			fmt.Sprintf("%d", s.UniqueNIKs),
			fmt.Sprintf("%.3f", s.QualityScore),
			fmt.Sprintf("%.3f", s.CostEfficiency),
			fmt.Sprintf("%.3f", s.DuplicateRate))
	}
	srcTable.Render()
	fmt.Println()

	if len(r.Degradations) > 0 {
		output.Warn("%d field degradations detected (use 'vwatch export' for the full log)", len(r.Degradations))
	}
	if len(r.Disagreements) > 0 {
		output.Warn("%d cross-source disagreements detected", len(r.Disagreements))
	}
	if peak, ok := r.Hourly.PeakHour(); ok {
		output.Info("Peak hour %02d:00 with %d requests (%d spike buckets)", peak.Hour, peak.Count, r.Hourly.Spikes)
	}
}

func skippedTotal(skipped map[string]int) int {
	total := 0
	for _, n := range skipped {
		total += n
	}
	return total
}
