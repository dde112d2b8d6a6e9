// Package cmd provides the ledger_backend commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/personal_ledger/internal/platform/config"
	"github.com/spf13/cobra"
)

var (
	envFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "ledger_backend",
	Short: "Personal ledger API server and maintenance tools",
	Long: `ledger_backend serves the personal ledger HTTP API and runs
database maintenance tasks against the same configuration.

Example:
  ledger_backend serve
  ledger_backend migrate up
  ledger_backend seed --config .env.local`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command. It is called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "config", "", "env file to load (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
