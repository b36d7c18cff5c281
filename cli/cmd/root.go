package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentrakyc/veriwatch/analyzer/pkg/analysis"
	"github.com/sentrakyc/veriwatch/analyzer/pkg/loader"
	"github.com/sentrakyc/veriwatch/cli/pkg/output"
)

var (
	dataPath     string
	outputFormat string
	sourceList   string
	fromDate     string
	toDate       string
)

var rootCmd = &cobra.Command{
	Use:   "vwatch",
	Short: "veriwatch CLI",
	Long: `vwatch analyzes NIK verification logs from the terminal.

Classify cache-attribution sequences, detect rapid-fire abuse and hourly
volume spikes, audit field degradations and source disagreements, and
score verification sources, all from a CSV export of the verification log.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "verification_log.csv", "path to the verification log CSV")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&sourceList, "sources", "DB_CACHE,DUKCAPIL,BCA", "comma-separated source result allow-list")
	rootCmd.PersistentFlags().StringVar(&fromDate, "from", "", "start date (YYYY-MM-DD, inclusive)")
	rootCmd.PersistentFlags().StringVar(&toDate, "to", "", "end date (YYYY-MM-DD, inclusive)")
}

// buildFilter assembles the snapshot filter from the persistent flags.
func buildFilter() (analysis.Filter, error) {
	f := analysis.Filter{}
	for _, s := range strings.Split(sourceList, ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.SourceResults = append(f.SourceResults, s)
		}
	}

	var err error
	if fromDate != "" {
		if f.From, err = time.Parse("2006-01-02", fromDate); err != nil {
			return f, fmt.Errorf("invalid --from date %q", fromDate)
		}
	}
	if toDate != "" {
		if f.To, err = time.Parse("2006-01-02", toDate); err != nil {
			return f, fmt.Errorf("invalid --to date %q", toDate)
		}
	}
	return f, nil
}

// loadSnapshot reads the CSV and applies the flag-derived filter.
func loadSnapshot() (*analysis.Snapshot, error) {
	filter, err := buildFilter()
	if err != nil {
		return nil, err
	}

	result, err := loader.LoadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", dataPath, err)
	}
	if result.UnparseableTimestamps > 0 {
		output.Warn("%d rows had unparseable timestamps", result.UnparseableTimestamps)
	}

	return analysis.ApplyFilter(result.Events, filter)
}
