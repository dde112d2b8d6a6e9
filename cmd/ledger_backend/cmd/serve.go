package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/personal_ledger/internal/core/services"
	"github.com/SscSPs/personal_ledger/internal/handlers"
	"github.com/SscSPs/personal_ledger/internal/middleware"
	"github.com/SscSPs/personal_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/personal_ledger/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Connect to Postgres, apply pending migrations and serve the API.

Example:
  ledger_backend serve
  ledger_backend serve --skip-migrations`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool)

	if !skipMigrations {
		if _, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateUp); err != nil {
			return err
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos)

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.CORS(cfg.CORSAllowedOrigins))
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("server failed to run: %w", err)
	}
	return nil
}
