// Package memstore provides a mutex-serialized in-memory registry store.
// It is the reference implementation of the registry semantics: unit tests
// run against it, and it backs lightweight single-process deployments.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/edufund/grantry/registry"
)

// Store implements registry.Store in memory.
// A single mutex serializes mutating operations, matching the strictly
// serialized execution model of the registry. Reads take the read lock.
type Store struct {
	mu       sync.RWMutex
	admin    string
	nextID   int64
	grants   []registry.Grant // insertion order = id order; grants[i].ID == int64(i)+1
	eligible map[string]struct{}
}

// New creates a Store with the admin identity fixed for its lifetime
func New(admin string) *Store {
	return &Store{
		admin:    admin,
		nextID:   1,
		eligible: make(map[string]struct{}),
	}
}

// RegisterEligible inserts identity into the eligibility set. Idempotent.
func (s *Store) RegisterEligible(ctx context.Context, caller, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.admin {
		return registry.ErrUnauthorized
	}

	s.eligible[identity] = struct{}{}
	return nil
}

// CreateGrant allocates the next dense id and stores a fully funded grant
func (s *Store) CreateGrant(ctx context.Context, donor, name string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	s.grants = append(s.grants, registry.Grant{
		ID:        id,
		Name:      name,
		Amount:    amount,
		Donor:     donor,
		Funded:    true,
		CreatedAt: time.Now(),
	})
	return id, nil
}

// ClaimGrant applies the one-time claim transition and executes the payout
// while holding the lock, so concurrent claims of the same grant resolve
// to exactly one winner. A failed payout reverts the transition.
func (s *Store) ClaimGrant(ctx context.Context, caller string, id int64, pay registry.PayoutFunc) (registry.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grant := s.lookup(id)
	if grant == nil {
		return registry.Grant{}, registry.ErrNotFound
	}
	if grant.Claimed {
		return registry.Grant{}, registry.ErrAlreadyClaimed
	}
	if _, ok := s.eligible[caller]; !ok {
		return registry.Grant{}, registry.ErrNotEligible
	}

	if err := pay(ctx, caller, grant.Amount); err != nil {
		// Transition not yet applied; nothing to revert
		return registry.Grant{}, wrapPayoutErr(err)
	}

	grant.Recipient = caller
	grant.Claimed = true
	grant.ClaimedAt = time.Now()
	return *grant, nil
}

// Grant returns the grant with the given id or ErrNotFound
func (s *Store) Grant(ctx context.Context, id int64) (registry.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grant := s.lookup(id)
	if grant == nil {
		return registry.Grant{}, registry.ErrNotFound
	}
	return *grant, nil
}

// ListGrants returns a page of grants in id order, with LIMIT n+1 style
// has-more detection to match the database store's behavior
func (s *Store) ListGrants(ctx context.Context, criteria registry.ListCriteria) (*registry.GrantsPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []registry.Grant
	for _, g := range s.grants {
		if matches(criteria.Claimed, g) {
			filtered = append(filtered, g)
		}
	}

	skip := criteria.ItemsToSkip()
	if skip > uint64(len(filtered)) {
		skip = uint64(len(filtered))
	}
	filtered = filtered[skip:]

	size := criteria.ItemsPerPage()
	hasMore := uint64(len(filtered)) > size
	if hasMore {
		filtered = filtered[:size]
	}

	return &registry.GrantsPage{
		Grants:  filtered,
		HasMore: hasMore,
		Number:  criteria.Page,
		Size:    criteria.Size,
	}, nil
}

// lookup exploits dense ids: grant id n lives at index n-1
func (s *Store) lookup(id int64) *registry.Grant {
	if id < 1 || id > int64(len(s.grants)) {
		return nil
	}
	return &s.grants[id-1]
}

func wrapPayoutErr(err error) error {
	return fmt.Errorf("%w: %w", registry.ErrPayoutFailed, err)
}

func matches(filter registry.ClaimedFilter, g registry.Grant) bool {
	switch filter {
	case registry.ClaimedOnly:
		return g.Claimed
	case registry.OpenOnly:
		return !g.Claimed
	default:
		return true
	}
}
