package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evrgames/metapipe/internal/metrics"
	"github.com/evrgames/metapipe/internal/pipeline"
	"github.com/evrgames/metapipe/internal/repository"
)

var (
	processDate   string
	processClient string
	processServer string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process one calendar day of incident reports",
	Long: `Load the client and server feeds for the given day, join them into
incidents, drop incidents owned by banned players, and append the rest to the
metatable in one transaction.

Examples:
  metapipe process --date 2021-01-01
  metapipe process --date 2021-01-01 --client /feeds/client.csv --server /feeds/server.csv`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processDate, "date", "", "target day, YYYY-MM-DD (required)")
	processCmd.Flags().StringVar(&processClient, "client", "", "client feed path (overrides config)")
	processCmd.Flags().StringVar(&processServer, "server", "", "server feed path (overrides config)")
	_ = processCmd.MarkFlagRequired("date")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	day, err := parseDay(processDate)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := repository.NewPostgresStore(ctx, cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("connect store: %w", err)
	}
	defer store.Close()

	clientPath := cfg.Sources.Client
	if processClient != "" {
		clientPath = processClient
	}
	serverPath := cfg.Sources.Server
	if processServer != "" {
		serverPath = processServer
	}

	p := pipeline.New(store, clientPath, serverPath, log, metrics.NewRecorder(log))
	return p.ProcessDate(ctx, day)
}

// parseDay reads a YYYY-MM-DD flag value as a local calendar date.
func parseDay(value string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, want YYYY-MM-DD", value)
	}
	return day, nil
}
