//go:build acceptance

package pgxstore_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	feedstore "github.com/edufund/grantry/feed/store/pgxstore"
	"github.com/edufund/grantry/pkg/pgxdb/pgxdbtest"
	"github.com/edufund/grantry/registry"
	registrystore "github.com/edufund/grantry/registry/store/pgxstore"
)

const (
	migrationsDir = "../../../migrator/migrations"
	admin         = "acct_admin"
)

// TestFeedStoreAcceptanceBehavior tests log reading and checkpointing
// against a real PostgreSQL database
func TestFeedStoreAcceptanceBehavior(t *testing.T) {
	t.Parallel()

	t.Run("it reads registry events in recorded order", func(t *testing.T) {
		t.Parallel()

		// Arrange - generate events through the real registry store
		pool := createBootstrappedDatabase(t)
		writes, writesCloser := registrystore.New(pool)
		t.Cleanup(writesCloser)

		require.NoError(t, writes.RegisterEligible(t.Context(), admin, "acct_alice"))
		id, err := writes.CreateGrant(t.Context(), "acct_donor", "Scholarship", 5000)
		require.NoError(t, err)
		_, err = writes.ClaimGrant(t.Context(), "acct_alice", id, nopPayout)
		require.NoError(t, err)

		store, storeCloser := feedstore.New(pool)
		t.Cleanup(storeCloser)

		// Act
		entries, err := store.Entries(t.Context(), 0, 10)

		// Assert
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, registry.EligibilityGranted{Identity: "acct_alice"}, entries[0].Event)
		assert.Equal(t, registry.GrantCreated{ID: id, Name: "Scholarship", Amount: 5000, Donor: "acct_donor"}, entries[1].Event)
		assert.Equal(t, registry.GrantClaimed{ID: id, Recipient: "acct_alice", Amount: 5000}, entries[2].Event)

		for i, entry := range entries {
			assert.False(t, entry.RecordedAt.IsZero(), "Entry %d should carry its recorded time", i)
		}
	})

	t.Run("it reads entries after a given id only", func(t *testing.T) {
		t.Parallel()

		// Arrange
		pool := createBootstrappedDatabase(t)
		writes, writesCloser := registrystore.New(pool)
		t.Cleanup(writesCloser)

		for i := 0; i < 3; i++ {
			_, err := writes.CreateGrant(t.Context(), "acct_donor", "Grant", 100)
			require.NoError(t, err)
		}

		store, storeCloser := feedstore.New(pool)
		t.Cleanup(storeCloser)

		// Act
		entries, err := store.Entries(t.Context(), 1, 10)

		// Assert
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(2), entries[0].ID)
		assert.Equal(t, int64(3), entries[1].ID)
	})

	t.Run("it persists the delivery checkpoint", func(t *testing.T) {
		t.Parallel()

		// Arrange
		pool := createBootstrappedDatabase(t)
		pgxdbtest.InitializeFeedCheckpoint(t, pool, 0)

		store, storeCloser := feedstore.New(pool)
		t.Cleanup(storeCloser)

		initial, err := store.LastDeliveredID(t.Context())
		require.NoError(t, err)
		assert.Equal(t, int64(0), initial)

		// Act
		require.NoError(t, store.MarkDelivered(t.Context(), 7))
		require.NoError(t, store.MarkDelivered(t.Context(), 9))

		// Assert
		last, err := store.LastDeliveredID(t.Context())
		require.NoError(t, err)
		assert.Equal(t, int64(9), last)
	})

	t.Run("it reports a zero checkpoint before initialization", func(t *testing.T) {
		t.Parallel()

		// Arrange - schema only, no checkpoint row
		pool := createBootstrappedDatabase(t)
		store, storeCloser := feedstore.New(pool)
		t.Cleanup(storeCloser)

		// Act
		last, err := store.LastDeliveredID(t.Context())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(0), last)
	})
}

// createBootstrappedDatabase creates a migrated test database with the
// registry admin fixed
func createBootstrappedDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, _ := pgxdbtest.CreateTestDatabase(t, migrationsDir)
	pgxdbtest.BootstrapRegistry(t, pool, admin)
	return pool
}

func nopPayout(ctx context.Context, recipient string, amount int64) error {
	return nil
}
