package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/edufund/grantry/pkg/clock"
)

// Option configures the Service
// ------------------------------------------------
type Option func(*Service)

// WithClock injects a custom Clock (e.g., for testing)
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithPollInterval sets the tailing interval
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) { s.pollInterval = d }
}

// WithChunkSize sets the number of log entries per batch
func WithChunkSize(n uint64) Option {
	return func(s *Service) { s.chunkSize = n }
}

// Service implements two-phase delivery: replay then live tailing
// ---------------------------------------------------------------
type Service struct {
	log          Log
	store        Store
	clock        clock.Clock
	pollInterval time.Duration
	chunkSize    uint64
	events       chan Event
}

// NewService constructs a Service with required dependencies and options.
// By default it uses a real clock, a 5s poll interval and 500 chunk size.
func NewService(log Log, store Store, opts ...Option) *Service {
	s := &Service{
		log:          log,
		store:        store,
		clock:        clock.SystemClock{},
		pollInterval: DefaultPollInterval,
		chunkSize:    DefaultChunkSize,
		events:       make(chan Event, 10),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the feed and returns the events channel and done channel.
//
// Shutdown pattern:
//  1. Cancel context to request shutdown: cancel()
//  2. Service stops producing events and closes events channel
//  3. Wait for complete shutdown: <-done
//
// The context signals when to stop, the done channel confirms when stopped.
func (s *Service) Start(ctx context.Context) (<-chan Event, <-chan struct{}) {
	done := make(chan struct{})
	go func() {
		defer close(s.events)
		defer close(done)
		s.run(ctx)
	}()
	return s.events, done
}

// run orchestrates the replay and tailing, respecting context cancellation
// ------------------------------------------------------------------------
func (s *Service) run(ctx context.Context) {
	// Replay
	start := s.clock.Now()

	startingCheckpointID, err := s.store.LastDeliveredID(ctx)
	if err != nil {
		s.events <- ReplayError{Err: fmt.Errorf("%w: %w", ErrCheckpointRetrieval, err)}
		return
	}

	s.events <- ReplayStarted{
		StartedAt:    start,
		CheckpointID: startingCheckpointID,
	}

	var total int64
	for {
		result, err := s.syncBatch(ctx)
		if err != nil {
			s.events <- ReplayError{Err: err}
			return
		}
		if result.Delivered == 0 {
			break
		}
		total += int64(result.Delivered)

		s.events <- ReplayBatchDelivered{
			Delivered:    result.Delivered,
			CheckpointID: result.CheckpointID,
			ChunkSize:    s.chunkSize,
		}
	}

	s.events <- ReplayDone{
		TotalDelivered: total,
		Duration:       s.clock.Now().Sub(start),
	}

	// Tailing
	s.events <- TailStarted{Interval: s.pollInterval}
	for {
		select {
		case <-ctx.Done():
			s.events <- TailShutdown{Reason: ctx.Err()}
			return
		case <-s.clock.After(s.pollInterval):
			result, err := s.syncBatch(ctx)
			if err != nil {
				s.events <- TailError{Err: err}
				continue
			}

			s.events <- TailBatchDelivered{
				Delivered:    result.Delivered,
				CheckpointID: result.CheckpointID,
				ChunkSize:    s.chunkSize,
			}
		}
	}
}

// syncBatch reads the next chunk of the log, delivers each entry, and
// advances the checkpoint once the whole chunk is out
func (s *Service) syncBatch(ctx context.Context) (SyncResult, error) {
	// respect cancellation
	select {
	case <-ctx.Done():
		return SyncResult{}, ctx.Err()
	default:
	}

	checkpointID, err := s.store.LastDeliveredID(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: %w", ErrCheckpointRetrieval, err)
	}

	batch, err := s.log.Entries(ctx, checkpointID, s.chunkSize)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: %w", ErrLogReadFailed, err)
	}

	if len(batch) == 0 {
		return SyncResult{Delivered: 0, CheckpointID: checkpointID}, nil
	}

	for _, entry := range batch {
		s.events <- Delivery{Entry: entry}
	}

	// Entries come in id order, so the last one carries the new checkpoint
	newCheckpointID := batch[len(batch)-1].ID
	if err := s.store.MarkDelivered(ctx, newCheckpointID); err != nil {
		return SyncResult{}, fmt.Errorf("%w: %w", ErrMarkDeliveredFailed, err)
	}

	return SyncResult{
		Delivered:    len(batch),
		CheckpointID: newCheckpointID,
	}, nil
}
