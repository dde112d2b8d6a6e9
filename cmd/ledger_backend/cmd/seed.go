package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/SscSPs/personal_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/personal_ledger/pkg/database"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo user with the default categories",
	Long: `Register SEED_USERNAME with SEED_PASSWORD. Registration seeds the
default category tree. An existing user is left untouched.

Example:
  SEED_USERNAME=alice SEED_PASSWORD=changeme ledger_backend seed`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool)

	serviceContainer := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool))
	user, err := serviceContainer.Auth.Register(ctx, dto.RegisterRequest{
		Username: cfg.SeedUsername,
		Password: cfg.SeedPassword,
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		slog.Info("Seed user already exists", slog.String("username", cfg.SeedUsername))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	slog.Info("Seed user created", slog.String("user_id", user.UserID), slog.String("username", user.Username))
	return nil
}
