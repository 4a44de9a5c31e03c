// Package pgxstore provides the authoritative PostgreSQL registry store.
package pgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxcollect "github.com/zolstein/pgx-collect"

	"github.com/edufund/grantry/registry"
	"github.com/edufund/grantry/registry/store/dbrow"
)

// Sentinel errors for store operations
var (
	ErrTransactionFailed = errors.New("transaction failed")
	ErrStateRowMissing   = errors.New("registry state row missing; run the migrator")
	ErrInsertFailed      = errors.New("insert operation failed")
	ErrEventAppendFailed = errors.New("event append failed")
	ErrQueryFailed       = errors.New("grant query failed")
)

// SQL queries
const (
	selectAdminSQL = `SELECT admin FROM registry_state`

	allocateIDSQL = `
		UPDATE registry_state SET next_id = next_id + 1
		RETURNING next_id - 1`

	insertEligibilitySQL = `
		INSERT INTO eligibility (identity) VALUES ($1)
		ON CONFLICT (identity) DO NOTHING`

	insertGrantSQL = `
		INSERT INTO grants (id, name, amount, donor)
		VALUES ($1, $2, $3, $4)`

	selectGrantForUpdateSQL = grantColumns + ` WHERE id = $1 FOR UPDATE`

	selectGrantSQL = grantColumns + ` WHERE id = $1`

	checkEligibilitySQL = `SELECT EXISTS(SELECT 1 FROM eligibility WHERE identity = $1)`

	applyClaimSQL = `
		UPDATE grants SET recipient = $2, claimed = TRUE, claimed_at = now()
		WHERE id = $1
		RETURNING claimed_at`

	appendEventSQL = `
		INSERT INTO registry_events (kind, grant_id, identity, name, amount, donor)
		VALUES ($1, $2, $3, $4, $5, $6)`

	grantColumns = `SELECT id, name, amount, donor, recipient, funded, claimed, created_at, claimed_at FROM grants`
)

// Store implements registry.Store using pgx.
//
// Every mutation runs in one transaction that also appends the matching
// event row, so the durable log is ordered by operation completion.
// Serialization comes from row locks: claims lock the grant row, creations
// lock the registry state singleton while allocating the next id.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL store with an existing connection pool
// Returns the store and a closer function
func New(pool *pgxpool.Pool) (*Store, func()) {
	store := &Store{pool: pool}
	closer := func() {
		pool.Close()
	}
	return store, closer
}

// RegisterEligible inserts identity into the eligibility set if caller is
// the admin. Idempotent on the set; the event row is appended on every
// successful call.
func (s *Store) RegisterEligible(ctx context.Context, caller, identity string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		admin, err := s.admin(ctx, tx)
		if err != nil {
			return err
		}
		if caller != admin {
			return registry.ErrUnauthorized
		}

		if _, err := tx.Exec(ctx, insertEligibilitySQL, identity); err != nil {
			return fmt.Errorf("%w: %w", ErrInsertFailed, err)
		}

		return s.appendEvent(ctx, tx, dbrow.Event{
			Kind:     dbrow.KindEligibilityGranted,
			Identity: &identity,
		})
	})
}

// CreateGrant allocates the next dense id and inserts a fully funded grant
func (s *Store) CreateGrant(ctx context.Context, donor, name string, amount int64) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		// The UPDATE locks the singleton row, serializing id allocation.
		// The counter only advances when the transaction commits, so ids
		// stay dense: a failed creation leaves next_id untouched.
		err := tx.QueryRow(ctx, allocateIDSQL).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStateRowMissing
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInsertFailed, err)
		}

		if _, err := tx.Exec(ctx, insertGrantSQL, id, name, amount, donor); err != nil {
			return fmt.Errorf("%w: %w", ErrInsertFailed, err)
		}

		return s.appendEvent(ctx, tx, dbrow.Event{
			Kind:    dbrow.KindGrantCreated,
			GrantID: &id,
			Name:    &name,
			Amount:  &amount,
			Donor:   &donor,
		})
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ClaimGrant applies the one-time claim transition. The grant row is
// locked for the duration, the payout runs between the state mutation and
// the commit, and any payout failure rolls the whole transaction back.
func (s *Store) ClaimGrant(ctx context.Context, caller string, id int64, pay registry.PayoutFunc) (registry.Grant, error) {
	var claimed registry.Grant
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var row dbrow.Grant
		err := tx.QueryRow(ctx, selectGrantForUpdateSQL, id).Scan(
			&row.ID, &row.Name, &row.Amount, &row.Donor, &row.Recipient,
			&row.Funded, &row.Claimed, &row.CreatedAt, &row.ClaimedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return registry.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrQueryFailed, err)
		}

		if row.Claimed {
			return registry.ErrAlreadyClaimed
		}

		var eligible bool
		if err := tx.QueryRow(ctx, checkEligibilitySQL, caller).Scan(&eligible); err != nil {
			return fmt.Errorf("%w: %w", ErrQueryFailed, err)
		}
		if !eligible {
			return registry.ErrNotEligible
		}

		claimed = row.ToDomain()
		claimed.Recipient = caller
		claimed.Claimed = true
		if err := tx.QueryRow(ctx, applyClaimSQL, id, caller).Scan(&claimed.ClaimedAt); err != nil {
			return fmt.Errorf("%w: %w", ErrInsertFailed, err)
		}

		if err := s.appendEvent(ctx, tx, dbrow.Event{
			Kind:     dbrow.KindGrantClaimed,
			GrantID:  &id,
			Identity: &caller,
			Amount:   &claimed.Amount,
		}); err != nil {
			return err
		}

		// Effects before external interaction: the claim is already
		// applied inside this transaction, so a failed payout aborts
		// everything at once.
		if err := pay(ctx, caller, claimed.Amount); err != nil {
			return fmt.Errorf("%w: %w", registry.ErrPayoutFailed, err)
		}
		return nil
	})
	if err != nil {
		return registry.Grant{}, err
	}
	return claimed, nil
}

// Grant returns the grant with the given id or registry.ErrNotFound
func (s *Store) Grant(ctx context.Context, id int64) (registry.Grant, error) {
	var row dbrow.Grant
	err := s.pool.QueryRow(ctx, selectGrantSQL, id).Scan(
		&row.ID, &row.Name, &row.Amount, &row.Donor, &row.Recipient,
		&row.Funded, &row.Claimed, &row.CreatedAt, &row.ClaimedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return registry.Grant{}, registry.ErrNotFound
	}
	if err != nil {
		return registry.Grant{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return row.ToDomain(), nil
}

// ListGrants queries grants based on the provided criteria.
// Uses LIMIT n+1 technique for efficient pagination without a count query.
func (s *Store) ListGrants(ctx context.Context, criteria registry.ListCriteria) (*registry.GrantsPage, error) {
	query, args := NewGrantsQuery().ForCriteria(criteria).Build()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	dbRows, err := pgxcollect.CollectRows(rows, pgxcollect.RowToStructByName[dbrow.Grant])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	grants := make([]registry.Grant, 0, len(dbRows))
	for _, row := range dbRows {
		grants = append(grants, row.ToDomain())
	}

	// Determine if there are more pages using the LIMIT n+1 technique
	hasMore := uint64(len(grants)) > criteria.ItemsPerPage()
	if hasMore {
		grants = grants[:criteria.ItemsPerPage()]
	}

	return &registry.GrantsPage{
		Grants:  grants,
		HasMore: hasMore,
		Number:  criteria.Page,
		Size:    criteria.Size,
	}, nil
}

// withTx runs fn inside a transaction, rolling back on error
func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // No-op if commit succeeds

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	return nil
}

func (s *Store) admin(ctx context.Context, tx pgx.Tx) (string, error) {
	var admin string
	err := tx.QueryRow(ctx, selectAdminSQL).Scan(&admin)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrStateRowMissing
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return admin, nil
}

func (s *Store) appendEvent(ctx context.Context, tx pgx.Tx, ev dbrow.Event) error {
	_, err := tx.Exec(ctx, appendEventSQL, ev.Kind, ev.GrantID, ev.Identity, ev.Name, ev.Amount, ev.Donor)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEventAppendFailed, err)
	}
	return nil
}
