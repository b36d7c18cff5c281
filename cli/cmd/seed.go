package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentrakyc/veriwatch/analyzer/pkg/loader"
	"github.com/sentrakyc/veriwatch/cli/internal/seeder"
	"github.com/sentrakyc/veriwatch/cli/pkg/output"
)

var (
	seedOut           string
	seedEntities      int
	seedSpread        time.Duration
	seedBursts        int
	seedDegradations  int
	seedDisagreements int
	seedSeed          int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a synthetic verification log",
	Long: `Generate a synthetic verification log CSV for demos and testing.

The generated data contains every pattern the analyzer looks for:
cache-attribution sequences, rapid-fire bursts, field degradations and
cross-source disagreements.

Examples:
  # 200 entities over the last week
  vwatch seed --out verification_log.csv

  # Reproducible large dataset
  vwatch seed --entities 5000 --spread 720h --seed 42 --out big.csv`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	def := seeder.DefaultConfig()
	seedCmd.Flags().StringVar(&seedOut, "out", "verification_log.csv", "output CSV file")
	seedCmd.Flags().IntVar(&seedEntities, "entities", def.Entities, "number of distinct NIKs")
	seedCmd.Flags().DurationVar(&seedSpread, "spread", def.TimeSpread, "time period to spread events over")
	seedCmd.Flags().IntVar(&seedBursts, "bursts", def.RapidFireBursts, "entities that get a rapid-fire burst")
	seedCmd.Flags().IntVar(&seedDegradations, "degradations", def.Degradations, "entities that get a field degradation")
	seedCmd.Flags().IntVar(&seedDisagreements, "disagreements", def.Disagreements, "entities with cross-source disagreements")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 0, "random seed (0 = time-based)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	gen := seeder.New(seeder.Config{
		Entities:        seedEntities,
		TimeSpread:      seedSpread,
		RapidFireBursts: seedBursts,
		Degradations:    seedDegradations,
		Disagreements:   seedDisagreements,
		Seed:            seedSeed,
	})
	events := gen.Generate()

	f, err := os.Create(seedOut)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := loader.WriteEvents(f, events); err != nil {
		return err
	}
	output.Success("wrote %d events for %d entities to %s", len(events), seedEntities, seedOut)
	return nil
}
