package registry

import (
	"context"
	"fmt"
)

// Store provides authoritative persistence for registry state
// ------------------------------------------------------------
// Implementations must execute each mutating operation as a single
// serialized unit: concurrent claims of one grant resolve so that exactly
// one succeeds and the rest observe ErrAlreadyClaimed. Failed operations
// leave no observable state change.
type Store interface {
	// RegisterEligible inserts identity into the eligibility set.
	// Idempotent. Fails with ErrUnauthorized unless caller is the admin.
	RegisterEligible(ctx context.Context, caller, identity string) error
	// CreateGrant allocates the next dense id and inserts a fully funded
	// grant. Returns the new grant id.
	CreateGrant(ctx context.Context, donor, name string, amount int64) (int64, error)
	// ClaimGrant applies the one-time claim transition for caller and
	// invokes pay inside the same unit of work; if pay fails the whole
	// transition is rolled back and ErrPayoutFailed is returned.
	// Guard order: ErrNotFound, ErrAlreadyClaimed, ErrNotEligible.
	ClaimGrant(ctx context.Context, caller string, id int64, pay PayoutFunc) (Grant, error)
	// Grant returns the grant with the given id or ErrNotFound.
	Grant(ctx context.Context, id int64) (Grant, error)
	// ListGrants returns a page of grants in id (insertion) order.
	ListGrants(ctx context.Context, criteria ListCriteria) (*GrantsPage, error)
}

// PayoutFunc executes the outward value transfer of a claim. It runs
// inside the store's claim unit of work so that a failed payout aborts
// the state transition.
type PayoutFunc func(ctx context.Context, recipient string, amount int64) error

// Payer moves value out of the registry to a recipient
type Payer interface {
	// Pay transfers amount to recipient. Reference is an idempotency key
	// stable across retries of the same claim.
	Pay(ctx context.Context, recipient string, amount int64, reference string) error
}

// Default service configuration
const (
	DefaultEventBuffer = 16
)

// Option configures the Service
// ------------------------------------------------
type Option func(*Service)

// WithEventBuffer sets the capacity of the notification channel
func WithEventBuffer(n int) Option {
	return func(s *Service) { s.events = make(chan Event, n) }
}

// Service orchestrates registry operations over a Store and a Payer
// -----------------------------------------------------------------
// The Service is thin on purpose: guard chains live in the store, next to
// the state they protect. The Service validates pure-input preconditions,
// wires payouts into claims, and publishes notification events.
type Service struct {
	store  Store
	payer  Payer
	events chan Event
}

// NewService constructs a Service with required dependencies and options
func NewService(store Store, payer Payer, opts ...Option) *Service {
	s := &Service{
		store:  store,
		payer:  payer,
		events: make(chan Event, DefaultEventBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns the process-local notification channel.
//
// The channel is best-effort: when no subscriber keeps up, events are
// dropped rather than blocking operations. The durable event log kept by
// the store is the authoritative stream; consumers that need every event
// follow it through the feed service instead.
func (s *Service) Events() <-chan Event {
	return s.events
}

// Close closes the notification channel. Call after the last operation
// has completed; a Subscriber draining Events will then finish.
func (s *Service) Close() {
	close(s.events)
}

// RegisterEligible makes identity eligible to claim grants.
// Admin-gated and idempotent: registering an already eligible identity
// changes nothing but still emits EligibilityGranted.
func (s *Service) RegisterEligible(ctx context.Context, caller, identity string) error {
	if err := s.store.RegisterEligible(ctx, caller, identity); err != nil {
		return err
	}

	s.publish(EligibilityGranted{Identity: identity})
	return nil
}

// CreateGrant creates a fully funded grant and returns its id.
// The deposited value must equal the declared amount exactly; over- and
// under-funding are both rejected with ErrValueMismatch before any state
// changes. Name may be empty and amount may be zero.
func (s *Service) CreateGrant(ctx context.Context, caller, name string, amount, deposited int64) (int64, error) {
	if deposited != amount {
		return 0, fmt.Errorf("%w: declared %d, deposited %d", ErrValueMismatch, amount, deposited)
	}

	id, err := s.store.CreateGrant(ctx, caller, name, amount)
	if err != nil {
		return 0, err
	}

	s.publish(GrantCreated{ID: id, Name: name, Amount: amount, Donor: caller})
	return id, nil
}

// ClaimGrant transfers the grant's value to caller and marks it claimed,
// atomically. Returns the claimed grant on success.
func (s *Service) ClaimGrant(ctx context.Context, caller string, id int64) (Grant, error) {
	grant, err := s.store.ClaimGrant(ctx, caller, id, func(ctx context.Context, recipient string, amount int64) error {
		return s.payer.Pay(ctx, recipient, amount, payoutReference(id))
	})
	if err != nil {
		return Grant{}, err
	}

	s.publish(GrantClaimed{ID: grant.ID, Recipient: grant.Recipient, Amount: grant.Amount})
	return grant, nil
}

// Grant returns the grant with the given id or ErrNotFound. Read-only.
func (s *Service) Grant(ctx context.Context, id int64) (Grant, error) {
	return s.store.Grant(ctx, id)
}

// ListGrants returns a page of grants in id order
func (s *Service) ListGrants(ctx context.Context, criteria ListCriteria) (*GrantsPage, error) {
	return s.store.ListGrants(ctx, criteria)
}

// publish sends an event to the notification channel without blocking
func (s *Service) publish(ev Event) {
	select {
	case s.events <- ev:
	default: // no subscriber keeping up; the durable log still has it
	}
}

// payoutReference derives the idempotency key for a grant's payout.
// A grant pays out at most once, so the id is a stable reference.
func payoutReference(id int64) string {
	return fmt.Sprintf("grant-%d", id)
}
