// Package cli wires the metapipe commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evrgames/metapipe/internal/config"
	"github.com/evrgames/metapipe/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "metapipe",
	Short: "Daily incident metatable pipeline",
	Long: `metapipe correlates the client- and server-reported error feeds for one
calendar day, drops incidents that belong to banned players, and appends the
survivors to the metatable for later analysis.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}
	log = logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(log)
}
