package pgxdbtest

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for pgtestdb
	"github.com/peterldowns/pgtestdb"
	"github.com/peterldowns/pgtestdb/migrators/sqlmigrator"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/require"
)

// CreateTestDatabase creates a test database with migrations applied.
// Returns the connection pool and database URL for further connections.
func CreateTestDatabase(t *testing.T, migrationsDir string) (*pgxpool.Pool, string) {
	t.Helper()

	config := pgtestdb.Config{
		DriverName: "pgx",
		User:       "grantry",
		Password:   "grantry",
		Host:       "localhost",
		Port:       "5432",
		Options:    "sslmode=disable",
	}

	// Set up sql-migrate migrator
	source := &migrate.FileMigrationSource{
		Dir: migrationsDir,
	}
	migrationSet := &migrate.MigrationSet{
		TableName: "schema_migrations",
	}
	migrator := sqlmigrator.New(source, migrationSet)

	// Create test database and get its config
	dbConfig := pgtestdb.Custom(t, config, migrator)
	dbURL := dbConfig.URL()

	t.Logf("testdbconf: %s", dbURL)

	pool, err := createTestConnection(t.Context(), dbURL)
	require.NoError(t, err)

	return pool, dbURL
}

// BootstrapRegistry fixes the registry admin in the test database.
// Useful for store tests that bypass the migrator package.
func BootstrapRegistry(t *testing.T, testDB *pgxpool.Pool, admin string) {
	t.Helper()

	_, err := testDB.Exec(t.Context(),
		"INSERT INTO registry_state (single_row, admin) VALUES (TRUE, $1) ON CONFLICT (single_row) DO NOTHING", admin)
	require.NoError(t, err)
}

// InitializeFeedCheckpoint initializes the feed delivery checkpoint.
// Useful for feed-related tests that need a starting checkpoint.
func InitializeFeedCheckpoint(t *testing.T, testDB *pgxpool.Pool, checkpoint int64) {
	t.Helper()

	_, err := testDB.Exec(t.Context(),
		"INSERT INTO feed_checkpoint (single_row, last_id) VALUES (TRUE, $1) ON CONFLICT (single_row) DO UPDATE SET last_id = $1", checkpoint)
	require.NoError(t, err)
}

// createTestConnection creates a connection pool optimized for integration tests:
// minimal pool size for sequential test execution, shorter lifecycles for
// faster test cycles, quick failure detection for fast feedback.
func createTestConnection(ctx context.Context, connectionString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, err
	}

	// Minimal pool size - tests are typically sequential
	config.MinConns = 1
	config.MaxConns = 2

	// Shorter lifecycles for test scenarios
	config.MaxConnLifetime = 10 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	// Fail fast in test scenarios
	config.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, config)
}
