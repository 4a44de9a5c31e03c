// Package registry implements the funded-grant registry: a single
// authority over grant records and the eligibility allowlist. Grants are
// created fully funded, carry dense monotonically assigned ids, and admit
// exactly one claim by an eligible recipient, paid out atomically with the
// state transition.
package registry

import (
	"errors"
	"time"
)

// Sentinel errors for registry operations. Each maps to exactly one
// observable failure kind at the API boundary.
var (
	ErrUnauthorized   = errors.New("caller is not the registry admin")
	ErrValueMismatch  = errors.New("deposited value does not equal grant amount")
	ErrNotFound       = errors.New("grant not found")
	ErrAlreadyClaimed = errors.New("grant already claimed")
	ErrNotEligible    = errors.New("caller is not eligible to claim")
	ErrPayoutFailed   = errors.New("payout to recipient failed")
)

// Grant represents a funded award awaiting a single claim.
//
// A grant is immutable after creation except for the claim transition,
// which sets Recipient, Claimed and ClaimedAt together, exactly once.
type Grant struct {
	ID        int64
	Name      string
	Amount    int64
	Donor     string
	Recipient string // empty until claimed
	Funded    bool   // always true in this design: creation requires full funding
	Claimed   bool
	CreatedAt time.Time
	ClaimedAt time.Time // zero until claimed
}
