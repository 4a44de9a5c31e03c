package dbrow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edufund/grantry/registry"
	"github.com/edufund/grantry/registry/store/dbrow"
)

func TestEventToDomain(t *testing.T) {
	t.Parallel()

	t.Run("it converts an eligibility row", func(t *testing.T) {
		t.Parallel()

		row := dbrow.Event{
			ID:       1,
			Kind:     dbrow.KindEligibilityGranted,
			Identity: ptr("acct_alice"),
		}

		event, err := row.ToDomain()

		require.NoError(t, err)
		assert.Equal(t, registry.EligibilityGranted{Identity: "acct_alice"}, event)
	})

	t.Run("it converts a grant creation row", func(t *testing.T) {
		t.Parallel()

		row := dbrow.Event{
			ID:      2,
			Kind:    dbrow.KindGrantCreated,
			GrantID: ptr(int64(7)),
			Name:    ptr("Scholarship"),
			Amount:  ptr(int64(5000)),
			Donor:   ptr("acct_donor"),
		}

		event, err := row.ToDomain()

		require.NoError(t, err)
		assert.Equal(t, registry.GrantCreated{ID: 7, Name: "Scholarship", Amount: 5000, Donor: "acct_donor"}, event)
	})

	t.Run("it converts a claim row", func(t *testing.T) {
		t.Parallel()

		row := dbrow.Event{
			ID:       3,
			Kind:     dbrow.KindGrantClaimed,
			GrantID:  ptr(int64(7)),
			Identity: ptr("acct_alice"),
			Amount:   ptr(int64(5000)),
		}

		event, err := row.ToDomain()

		require.NoError(t, err)
		assert.Equal(t, registry.GrantClaimed{ID: 7, Recipient: "acct_alice", Amount: 5000}, event)
	})

	t.Run("it tolerates NULL columns", func(t *testing.T) {
		t.Parallel()

		row := dbrow.Event{ID: 4, Kind: dbrow.KindGrantCreated}

		event, err := row.ToDomain()

		require.NoError(t, err)
		assert.Equal(t, registry.GrantCreated{}, event)
	})

	t.Run("it rejects an unknown kind", func(t *testing.T) {
		t.Parallel()

		row := dbrow.Event{ID: 5, Kind: "grant_revoked"}

		_, err := row.ToDomain()

		assert.ErrorIs(t, err, dbrow.ErrUnknownEventKind)
	})
}

func ptr[T any](v T) *T {
	return &v
}
