package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/edufund/grantry/migrator"
	"github.com/edufund/grantry/migrator/config"
	"github.com/edufund/grantry/pkg/logger"
	"github.com/edufund/grantry/pkg/pgxdb"
)

// These values are overridden at build time using -ldflags
var (
	version = "dev"
	date    = "unknown"
)

func main() {
	// Load configuration from environment
	_ = godotenv.Load()
	cfg := config.New()

	// Initialize logger and set as default
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
	})
	slog.SetDefault(log)

	log.Info("Starting database migrator service",
		slog.String("migrationsDir", cfg.MigrationsDir),
		slog.String("version", version),
		slog.String("date", date),
	)

	// Create a context that cancels on SIGINT/SIGTERM _or_ when the timeout elapses
	baseCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(baseCtx, cfg.OperationTimeout)
	defer cancel()

	// Connect to database
	db, err := pgxdb.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Apply migrations
	log.Info("Applying database migrations")
	if err := migrator.ApplyMigrations(db, cfg.MigrationsDir); err != nil {
		log.Error("Failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("Database migrations applied successfully")

	// Bootstrap the registry admin if configured. A no-op once set.
	if cfg.Admin != "" {
		log.Info("Bootstrapping registry", slog.String("admin", cfg.Admin))
		if err := migrator.BootstrapRegistry(ctx, db, cfg.Admin); err != nil {
			log.Error("Failed to bootstrap registry", slog.Any("error", err))
			os.Exit(1)
		}
		log.Info("Registry bootstrapped successfully")
	}

	// Ensure the feed checkpoint row exists
	if err := migrator.InitializeFeedCheckpoint(ctx, db); err != nil {
		log.Error("Failed to initialize feed checkpoint", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("Database migrator completed successfully")
}
