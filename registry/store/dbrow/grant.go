package dbrow

import (
	"time"

	"github.com/edufund/grantry/registry"
)

// Grant represents a grant record as stored in the database
type Grant struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Amount    int64      `db:"amount"`
	Donor     string     `db:"donor"`
	Recipient *string    `db:"recipient"`
	Funded    bool       `db:"funded"`
	Claimed   bool       `db:"claimed"`
	CreatedAt time.Time  `db:"created_at"`
	ClaimedAt *time.Time `db:"claimed_at"`
}

// ToDomain converts a database row to the domain grant
func (g Grant) ToDomain() registry.Grant {
	grant := registry.Grant{
		ID:        g.ID,
		Name:      g.Name,
		Amount:    g.Amount,
		Donor:     g.Donor,
		Funded:    g.Funded,
		Claimed:   g.Claimed,
		CreatedAt: g.CreatedAt,
	}
	if g.Recipient != nil {
		grant.Recipient = *g.Recipient
	}
	if g.ClaimedAt != nil {
		grant.ClaimedAt = *g.ClaimedAt
	}
	return grant
}
