package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/edufund/grantry/feed"
	"github.com/edufund/grantry/feed/config"
	feedstore "github.com/edufund/grantry/feed/store/pgxstore"
	"github.com/edufund/grantry/pkg/logger"
	"github.com/edufund/grantry/pkg/pgxdb"
	"github.com/edufund/grantry/registry"
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

	log.InfoContext(ctx, "Grantry Watcher Service starting",
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

	// Initialize event log store
	store, storeCloser := feedstore.New(db)
	defer storeCloser()

	// Create and start the feed service. The store serves both as the
	// event log reader and the checkpoint store.
	svc := feed.NewService(store, store,
		feed.WithChunkSize(cfg.ChunkSize),
		feed.WithPollInterval(cfg.PollInterval),
	)

	events, done := svc.Start(ctx)

	// Log feed events as they happen
	subCloser := setupEventLogging(ctx, events, log)
	defer subCloser()

	// Wait until the service winds down
	<-done

	log.InfoContext(ctx, "Watcher exited gracefully")
}

// setupEventLogging configures feed event handlers using slog directly
func setupEventLogging(ctx context.Context, events <-chan feed.Event, log *slog.Logger) func() {
	return feed.NewSubscriber(events,
		feed.OnReplayStarted(func(event feed.ReplayStarted) {
			log.InfoContext(ctx, "Replay started",
				slog.Int64("checkpoint_id", event.CheckpointID),
			)
		}),
		feed.OnReplayBatchDelivered(func(event feed.ReplayBatchDelivered) {
			log.InfoContext(ctx, "Replay batch delivered",
				slog.Int("delivered", event.Delivered),
				slog.Int64("checkpoint_id", event.CheckpointID),
			)
		}),
		feed.OnReplayDone(func(event feed.ReplayDone) {
			log.InfoContext(ctx, "Replay done",
				slog.Int64("total_delivered", event.TotalDelivered),
				slog.Duration("duration", event.Duration),
			)
		}),
		feed.OnReplayError(func(event feed.ReplayError) {
			log.ErrorContext(ctx, "Replay failed",
				slog.Any("error", event.Err),
			)
		}),
		feed.OnTailStarted(func(event feed.TailStarted) {
			log.InfoContext(ctx, "Tailing event log",
				slog.Duration("interval", event.Interval),
			)
		}),
		feed.OnTailBatchDelivered(func(event feed.TailBatchDelivered) {
			if event.Delivered == 0 {
				return
			}
			log.InfoContext(ctx, "Tail batch delivered",
				slog.Int("delivered", event.Delivered),
				slog.Int64("checkpoint_id", event.CheckpointID),
			)
		}),
		feed.OnTailError(func(event feed.TailError) {
			log.ErrorContext(ctx, "Tail iteration failed",
				slog.Any("error", event.Err),
			)
		}),
		feed.OnTailShutdown(func(event feed.TailShutdown) {
			log.InfoContext(ctx, "Tail shutting down",
				slog.Any("reason", event.Reason),
			)
		}),
		feed.OnDelivery(func(event feed.Delivery) {
			logDelivery(ctx, log, event.Entry)
		}),
	)
}

func logDelivery(ctx context.Context, log *slog.Logger, entry feed.Entry) {
	switch e := entry.Event.(type) {
	case registry.EligibilityGranted:
		log.InfoContext(ctx, "Eligibility granted",
			slog.Int64("entry_id", entry.ID),
			slog.String("identity", e.Identity),
		)
	case registry.GrantCreated:
		log.InfoContext(ctx, "Grant created",
			slog.Int64("entry_id", entry.ID),
			slog.Int64("id", e.ID),
			slog.String("name", e.Name),
			slog.Int64("amount", e.Amount),
			slog.String("donor", e.Donor),
		)
	case registry.GrantClaimed:
		log.InfoContext(ctx, "Grant claimed",
			slog.Int64("entry_id", entry.ID),
			slog.Int64("id", e.ID),
			slog.String("recipient", e.Recipient),
			slog.Int64("amount", e.Amount),
		)
	default:
		log.WarnContext(ctx, "Unknown event delivered",
			slog.Int64("entry_id", entry.ID),
		)
	}
}
