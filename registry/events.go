package registry

// Event represents an observable registry state transition
// ---------------------------------------------------------
// Events are recorded durably by the store in the same transaction as the
// mutation they describe, so the durable log is ordered by operation
// completion. The Service additionally publishes them on a process-local
// notification channel (see Service.Events).
type Event any

// EligibilityGranted is emitted when the admin registers an identity as
// eligible to claim. Registration is idempotent; the event is emitted on
// every successful call, including repeats.
type EligibilityGranted struct {
	Identity string
}

// GrantCreated is emitted when a donor creates a fully funded grant.
type GrantCreated struct {
	ID     int64
	Name   string
	Amount int64
	Donor  string
}

// GrantClaimed is emitted when an eligible recipient claims a grant and
// the payout has completed.
type GrantClaimed struct {
	ID        int64
	Recipient string
	Amount    int64
}
