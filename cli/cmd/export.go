package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sentrakyc/veriwatch/analyzer/pkg/analysis"
	"github.com/sentrakyc/veriwatch/analyzer/pkg/loader"
	"github.com/sentrakyc/veriwatch/cli/pkg/output"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the field degradation log as CSV",
	Long: `Detect every field transition from Sesuai to Tidak Sesuai across
repeat verifications in the filtered log and write the audit rows as CSV.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	findings := analysis.DetectDegradations(snap)
	analysis.SortDegradations(findings)

	w := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := loader.WriteDegradations(w, findings); err != nil {
		return err
	}
	if exportOut != "" {
		output.Success("wrote %d degradation(s) to %s", len(findings), exportOut)
	}
	return nil
}
