// Package pgxstore reads the registry event log and persists the feed
// checkpoint in PostgreSQL.
package pgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edufund/grantry/feed"
	"github.com/edufund/grantry/registry/store/dbrow"
)

// Sentinel errors for store operations
var (
	ErrLastDeliveredIDFailed = errors.New("failed to get last delivered ID")
	ErrCheckpointFailed      = errors.New("checkpoint update failed")
	ErrEntriesQueryFailed    = errors.New("event log query failed")
)

// SQL queries
const (
	selectCheckpointSQL = `SELECT COALESCE(last_id, 0) FROM feed_checkpoint`

	upsertCheckpointSQL = `
		INSERT INTO feed_checkpoint (single_row, last_id) VALUES (TRUE, $1)
		ON CONFLICT (single_row) DO UPDATE SET last_id = $1`

	selectEntriesSQL = `
		SELECT id, kind, grant_id, identity, name, amount, donor, recorded_at
		FROM registry_events
		WHERE id > $1
		ORDER BY id
		LIMIT $2`
)

// Store implements feed.Log and feed.Store using pgx
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL feed store with an existing connection pool
// Returns the store and a closer function
func New(pool *pgxpool.Pool) (*Store, func()) {
	store := &Store{pool: pool}
	closer := func() {
		pool.Close()
	}
	return store, closer
}

// LastDeliveredID returns the id of the last delivered log entry
func (s *Store) LastDeliveredID(ctx context.Context) (int64, error) {
	var lastID int64
	err := s.pool.QueryRow(ctx, selectCheckpointSQL).Scan(&lastID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLastDeliveredIDFailed, err)
	}
	return lastID, nil
}

// MarkDelivered advances the checkpoint (singleton table with upsert)
func (s *Store) MarkDelivered(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, upsertCheckpointSQL, id); err != nil {
		return fmt.Errorf("%w: %w", ErrCheckpointFailed, err)
	}
	return nil
}

// Entries returns up to limit event log entries after afterID, in id order
func (s *Store) Entries(ctx context.Context, afterID int64, limit uint64) ([]feed.Entry, error) {
	rows, err := s.pool.Query(ctx, selectEntriesSQL, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntriesQueryFailed, err)
	}
	defer rows.Close()

	var entries []feed.Entry
	for rows.Next() {
		var row dbrow.Event
		err := rows.Scan(&row.ID, &row.Kind, &row.GrantID, &row.Identity, &row.Name, &row.Amount, &row.Donor, &row.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: scan failed: %w", ErrEntriesQueryFailed, err)
		}

		event, err := row.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEntriesQueryFailed, err)
		}

		entries = append(entries, feed.Entry{
			ID:         row.ID,
			Event:      event,
			RecordedAt: row.RecordedAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntriesQueryFailed, err)
	}

	return entries, nil
}
