package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evrgames/metapipe/internal/repository"
	"github.com/evrgames/metapipe/internal/seeder"
)

var (
	seedDate         string
	seedIncidents    int
	seedOrphans      int
	seedCheaterRatio float64
	seedSeed         int64
	seedInsertBans   bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate fixture feeds and ban rows for one day",
	Long: `Generate realistic client/server CSV feeds for a calendar day, plus ban
rows for a fraction of the players. With --insert-bans the ban rows go into
the cheaters table, standing in for the external ban system.

Examples:
  metapipe seed --date 2021-01-01 --incidents 500
  metapipe seed --date 2021-01-01 --incidents 500 --cheater-ratio 0.1 --insert-bans`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedDate, "date", "", "target day, YYYY-MM-DD (required)")
	seedCmd.Flags().IntVar(&seedIncidents, "incidents", 100, "number of matched incidents")
	seedCmd.Flags().IntVar(&seedOrphans, "orphans", 10, "number of per-side rows with no counterpart")
	seedCmd.Flags().Float64Var(&seedCheaterRatio, "cheater-ratio", 0.05, "fraction of players that get a ban row")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 0, "random seed (0 = non-reproducible)")
	seedCmd.Flags().BoolVar(&seedInsertBans, "insert-bans", false, "insert generated bans into the cheaters table")
	_ = seedCmd.MarkFlagRequired("date")

	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	day, err := parseDay(seedDate)
	if err != nil {
		return err
	}

	ds := seeder.Generate(seeder.Config{
		Day:          day,
		Incidents:    seedIncidents,
		Orphans:      seedOrphans,
		CheaterRatio: seedCheaterRatio,
		Seed:         seedSeed,
	})

	if err := seeder.WriteClientCSV(cfg.Sources.Client, ds.Clients); err != nil {
		return fmt.Errorf("write client feed: %w", err)
	}
	if err := seeder.WriteServerCSV(cfg.Sources.Server, ds.Servers); err != nil {
		return fmt.Errorf("write server feed: %w", err)
	}

	if seedInsertBans && len(ds.Bans) > 0 {
		ctx := cmd.Context()
		store, err := repository.NewPostgresStore(ctx, cfg.Database.URL())
		if err != nil {
			return fmt.Errorf("connect store: %w", err)
		}
		defer store.Close()

		if err := store.SeedBans(ctx, ds.Bans); err != nil {
			return fmt.Errorf("insert bans: %w", err)
		}
	}

	fmt.Printf("Wrote %d client rows to %s\n", len(ds.Clients), cfg.Sources.Client)
	fmt.Printf("Wrote %d server rows to %s\n", len(ds.Servers), cfg.Sources.Server)
	fmt.Printf("Generated %d ban rows (inserted: %v)\n", len(ds.Bans), seedInsertBans && len(ds.Bans) > 0)
	return nil
}
