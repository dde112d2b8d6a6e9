package cmd

import (
	"log/slog"

	"github.com/SscSPs/personal_ledger/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down]",
	Short: "Apply or roll back schema migrations",
	Long: `Apply all pending migrations (up) or roll back the most recent one (down).

Example:
  ledger_backend migrate up
  ledger_backend migrate down`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	direction := database.MigrationDirection(args[0])
	changed, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction)
	if err != nil {
		return err
	}
	slog.Info("Migrations finished", slog.String("direction", string(direction)), slog.Bool("changed", changed))
	return nil
}
