package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evrgames/metapipe/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Ensure the metatable schema exists",
	Long: `Run the embedded schema migrations against the configured database.
process does this on every run as well; migrate exists for provisioning a
database ahead of time.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := repository.NewPostgresStore(ctx, cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("connect store: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	fmt.Println("Schema is up to date")
	return nil
}
