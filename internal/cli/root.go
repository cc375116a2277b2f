// Package cli wires the cobra command tree for the asetledger binary.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdamkota/asetledger/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "asetledger",
	Short: "Fixed-asset accounting core",
	Long: `AsetLedger keeps the chart of accounts, cost category mappings,
asset depreciation schedules, and the double-entry journal for a
regional utility operator, and serves them over an HTTP API.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config.toml (default: $ASETLEDGER_HOME/config.toml)")
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}
