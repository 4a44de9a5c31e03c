package migratortest

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for pgtestdb
	"github.com/peterldowns/pgtestdb"
	"github.com/stretchr/testify/require"

	"github.com/edufund/grantry/migrator"
)

// CreateRegistryTestDatabase creates a test database with migrations applied
// and the registry bootstrapped with the given admin. This mirrors the
// production pattern: schema first, then bootstrap.
// Returns the connection pool ready for use.
func CreateRegistryTestDatabase(t *testing.T, migrationsDir, admin string) *pgxpool.Pool {
	t.Helper()

	migratorInstance := migrator.NewSchemaMigrator(migrationsDir)
	pool := createTestDatabaseWithMigrator(t, migratorInstance)

	// Bootstrap separately (like production would)
	err := migrator.BootstrapRegistry(t.Context(), pool, admin)
	require.NoError(t, err)
	err = migrator.InitializeFeedCheckpoint(t.Context(), pool)
	require.NoError(t, err)

	return pool
}

// CreateSeededTestDatabase creates a test database with migrations applied
// and demo grants seeded through the real store.
// Returns the connection pool ready for use.
func CreateSeededTestDatabase(t *testing.T, migrationsDir, admin string, demoGrants int) *pgxpool.Pool {
	t.Helper()

	migratorInstance := migrator.NewSeededMigrator(migrationsDir, admin, demoGrants)
	return createTestDatabaseWithMigrator(t, migratorInstance)
}

// createTestDatabaseWithMigrator creates a test database using the provided migrator
func createTestDatabaseWithMigrator(t *testing.T, migratorInstance pgtestdb.Migrator) *pgxpool.Pool {
	t.Helper()

	config := createTestDatabaseConfig()

	// Create test database and get its config
	dbConfig := pgtestdb.Custom(t, config, migratorInstance)

	// Connect to the test database using test context for proper lifecycle management
	pool, err := pgxpool.New(t.Context(), dbConfig.URL())
	require.NoError(t, err)

	// Log the database URL for debugging
	t.Logf("testdbconf: %s", dbConfig.URL())

	return pool
}

// createTestDatabaseConfig creates the standard pgtestdb configuration for grantry tests
func createTestDatabaseConfig() pgtestdb.Config {
	return pgtestdb.Config{
		DriverName: "pgx",
		User:       "grantry",
		Password:   "grantry",
		Host:       "localhost",
		Port:       "5432",
		Options:    "sslmode=disable",
	}
}
