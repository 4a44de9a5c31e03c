// Package feed delivers the registry's durable event log to subscribers.
// It replays the log from the last delivered checkpoint, then tails it on
// a poll interval, so consumers observe every event exactly once and in
// order even across restarts.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/edufund/grantry/registry"
)

// Sentinel errors for failure cases
var (
	ErrCheckpointRetrieval = errors.New("checkpoint retrieval failed")
	ErrLogReadFailed       = errors.New("event log read failed")
	ErrMarkDeliveredFailed = errors.New("mark delivered failed")
)

// Default configuration values
const (
	DefaultChunkSize    = uint64(500)
	DefaultPollInterval = 5 * time.Second
)

// Entry is one row of the durable event log
type Entry struct {
	ID         int64
	Event      registry.Event
	RecordedAt time.Time
}

// Log reads the durable registry event log
// -----------------------------------------
type Log interface {
	// Entries returns up to limit log entries with ids greater than
	// afterID, in id order.
	Entries(ctx context.Context, afterID int64, limit uint64) ([]Entry, error)
}

// Store persists the feed's delivery checkpoint
type Store interface {
	// LastDeliveredID returns the id of the last delivered log entry
	LastDeliveredID(ctx context.Context) (int64, error)
	// MarkDelivered advances the checkpoint to id
	MarkDelivered(ctx context.Context, id int64) error
}

// SyncResult contains the results of one delivery batch
type SyncResult struct {
	Delivered    int
	CheckpointID int64
}

// Event represents a feed lifecycle or delivery event
// ---------------------------------------------------
type Event any

// Delivery carries one registry event pulled from the durable log
type Delivery struct {
	Entry Entry
}

type ReplayStarted struct {
	StartedAt    time.Time
	CheckpointID int64
}

type ReplayBatchDelivered struct {
	Delivered    int
	CheckpointID int64
	ChunkSize    uint64
}

type ReplayDone struct {
	TotalDelivered int64
	Duration       time.Duration
}

type ReplayError struct {
	Err error
}

type TailStarted struct {
	Interval time.Duration
}

type TailBatchDelivered struct {
	Delivered    int
	CheckpointID int64
	ChunkSize    uint64
}

type TailShutdown struct {
	Reason error // Why shutdown occurred (ctx.Err())
}

type TailError struct {
	Err error
}
