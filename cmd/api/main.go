package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/edufund/grantry/pkg/httpkit"
	"github.com/edufund/grantry/pkg/ledger"
	"github.com/edufund/grantry/pkg/logger"
	"github.com/edufund/grantry/pkg/pgxdb"
	"github.com/edufund/grantry/registry"
	"github.com/edufund/grantry/registry/store/pgxstore"
	"github.com/edufund/grantry/web/config"
	"github.com/edufund/grantry/web/handler"
)

var (
	version = "dev"
	date    = "unknown"
)

func main() {
	// Load configuration
	_ = godotenv.Load()
	cfg := config.New()

	// Initialize logger and set as default
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
	})
	slog.SetDefault(log)

	// Prepare context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.InfoContext(ctx, "Grantry API Service starting",
		slog.String("version", version),
		slog.String("date", date),
	)

	// Initialize database connection
	db, err := pgxdb.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		log.ErrorContext(ctx, "Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize store
	store, storeCloser := pgxstore.New(db)
	defer storeCloser()

	// Ledger client for payouts
	httpClient := &http.Client{Timeout: cfg.LedgerTimeout}
	payer := ledger.NewClient(httpClient, cfg.LedgerAPIURL)

	// Registry service
	svc := registry.NewService(store, payer)
	defer svc.Close()

	// Log registry events as they happen
	subCloser := setupEventLogging(ctx, svc.Events(), log)
	defer subCloser()

	// Create HTTP server
	mux := http.NewServeMux()
	handler.AddRoutes(mux, svc)

	// Wrap with request id and logging middleware
	loggedMux := httpkit.RequestID(logger.NewMiddleware(log)(mux))

	// Create server address
	addr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)

	server := &http.Server{
		Addr:    addr,
		Handler: loggedMux,
	}

	// Start server in a goroutine
	go func() {
		log.InfoContext(ctx, "Server started", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.ErrorContext(ctx, "Server failed to start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.InfoContext(ctx, "Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(ctx, "Server forced to shutdown", slog.Any("error", err))
		os.Exit(1)
	}

	log.InfoContext(ctx, "Server exited gracefully")
}

// setupEventLogging configures registry event handlers using slog directly
func setupEventLogging(ctx context.Context, events <-chan registry.Event, log *slog.Logger) func() {
	return registry.NewSubscriber(events,
		registry.OnEligibilityGranted(func(event registry.EligibilityGranted) {
			log.InfoContext(ctx, "Eligibility granted",
				slog.String("identity", event.Identity),
			)
		}),
		registry.OnGrantCreated(func(event registry.GrantCreated) {
			log.InfoContext(ctx, "Grant created",
				slog.Int64("id", event.ID),
				slog.String("name", event.Name),
				slog.Int64("amount", event.Amount),
				slog.String("donor", event.Donor),
			)
		}),
		registry.OnGrantClaimed(func(event registry.GrantClaimed) {
			log.InfoContext(ctx, "Grant claimed",
				slog.Int64("id", event.ID),
				slog.String("recipient", event.Recipient),
				slog.Int64("amount", event.Amount),
			)
		}),
	)
}
