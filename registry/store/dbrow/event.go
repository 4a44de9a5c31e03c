package dbrow

import (
	"errors"
	"fmt"
	"time"

	"github.com/edufund/grantry/registry"
)

// Event kind discriminators as stored in the registry_events table
const (
	KindEligibilityGranted = "eligibility_granted"
	KindGrantCreated       = "grant_created"
	KindGrantClaimed       = "grant_claimed"
)

// Sentinel errors for event row conversion
var (
	ErrUnknownEventKind = errors.New("unknown event kind")
)

// Event represents a row of the append-only registry event log.
// Only the columns relevant to a row's kind are populated; the rest are
// NULL.
type Event struct {
	ID         int64     `db:"id"`
	Kind       string    `db:"kind"`
	GrantID    *int64    `db:"grant_id"`
	Identity   *string   `db:"identity"`
	Name       *string   `db:"name"`
	Amount     *int64    `db:"amount"`
	Donor      *string   `db:"donor"`
	RecordedAt time.Time `db:"recorded_at"`
}

// ToDomain converts an event log row to the domain event it records
func (e Event) ToDomain() (registry.Event, error) {
	switch e.Kind {
	case KindEligibilityGranted:
		return registry.EligibilityGranted{
			Identity: stringOrEmpty(e.Identity),
		}, nil
	case KindGrantCreated:
		return registry.GrantCreated{
			ID:     int64OrZero(e.GrantID),
			Name:   stringOrEmpty(e.Name),
			Amount: int64OrZero(e.Amount),
			Donor:  stringOrEmpty(e.Donor),
		}, nil
	case KindGrantClaimed:
		return registry.GrantClaimed{
			ID:        int64OrZero(e.GrantID),
			Recipient: stringOrEmpty(e.Identity),
			Amount:    int64OrZero(e.Amount),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventKind, e.Kind)
	}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func int64OrZero(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
