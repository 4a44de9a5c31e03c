package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/peterldowns/pgtestdb"
	"github.com/peterldowns/pgtestdb/migrators/sqlmigrator"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/edufund/grantry/pkg/pgxdb"
	"github.com/edufund/grantry/registry/store/pgxstore"
)

// Migration constants
const (
	migrationsTableName = "schema_migrations"
	schemaHashPrefix    = "schema_only_"
	seededHashPrefix    = "seeded_demo_"
)

// SQL queries
const (
	bootstrapRegistrySQL = `
		INSERT INTO registry_state (single_row, admin) VALUES (TRUE, $1)
		ON CONFLICT (single_row) DO NOTHING`

	initFeedCheckpointSQL = `
		INSERT INTO feed_checkpoint (single_row, last_id) VALUES (TRUE, 0)
		ON CONFLICT (single_row) DO NOTHING`
)

// Migration-related errors
var (
	ErrMigrationExecution = errors.New("migration execution failed")
	ErrBootstrapFailed    = errors.New("registry bootstrap failed")
)

// SchemaMigrator applies only database schema migrations
// Used for production and tests that need schema-only setup
type SchemaMigrator struct {
	migrationsDir string
}

// NewSchemaMigrator creates a migrator that applies schema migrations only
func NewSchemaMigrator(migrationsDir string) *SchemaMigrator {
	return &SchemaMigrator{
		migrationsDir: migrationsDir,
	}
}

func (m *SchemaMigrator) Hash() (string, error) {
	source := &migrate.FileMigrationSource{Dir: m.migrationsDir}
	migrationSet := &migrate.MigrationSet{TableName: migrationsTableName}
	sqlMigrator := sqlmigrator.New(source, migrationSet)

	baseHash, err := sqlMigrator.Hash()
	if err != nil {
		return "", fmt.Errorf("failed to calculate migration hash for %s: %w", m.migrationsDir, err)
	}

	return schemaHashPrefix + baseHash, nil
}

func (m *SchemaMigrator) Migrate(ctx context.Context, db *sql.DB, conf pgtestdb.Config) error {
	return applyMigrations(db, m.migrationsDir)
}

// SeededMigrator applies schema migrations, bootstraps the registry with an
// admin, and seeds demo grants and eligible identities through the real
// store code path. Used for web API tests that need data to query against.
type SeededMigrator struct {
	migrationsDir string
	admin         string
	demoGrants    int
}

// NewSeededMigrator creates a migrator that applies schema + seeds demo data
func NewSeededMigrator(migrationsDir, admin string, demoGrants int) *SeededMigrator {
	return &SeededMigrator{
		migrationsDir: migrationsDir,
		admin:         admin,
		demoGrants:    demoGrants,
	}
}

func (m *SeededMigrator) Hash() (string, error) {
	source := &migrate.FileMigrationSource{Dir: m.migrationsDir}
	migrationSet := &migrate.MigrationSet{TableName: migrationsTableName}
	sqlMigrator := sqlmigrator.New(source, migrationSet)

	baseHash, err := sqlMigrator.Hash()
	if err != nil {
		return "", fmt.Errorf("failed to calculate migration hash for %s: %w", m.migrationsDir, err)
	}

	return seededHashPrefix + baseHash + "_" + m.admin + "_" + strconv.Itoa(m.demoGrants), nil
}

func (m *SeededMigrator) Migrate(ctx context.Context, db *sql.DB, conf pgtestdb.Config) error {
	if err := applyMigrations(db, m.migrationsDir); err != nil {
		return err
	}

	return m.seedDemoData(ctx, conf.URL())
}

// seedDemoData seeds the template database through the registry store, so
// seeded data went through the exact production write path (dense ids,
// event log entries included).
func (m *SeededMigrator) seedDemoData(ctx context.Context, dbURL string) error {
	pool, err := pgxdb.NewConnection(ctx, dbURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := BootstrapRegistry(ctx, pool, m.admin); err != nil {
		return err
	}
	if err := InitializeFeedCheckpoint(ctx, pool); err != nil {
		return err
	}

	store, storeCloser := pgxstore.New(pool)
	defer storeCloser()

	// One eligible demo recipient claims every other grant
	const recipient = "acct_demo_recipient"
	if err := store.RegisterEligible(ctx, m.admin, recipient); err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
	}

	nopPayout := func(ctx context.Context, recipient string, amount int64) error { return nil }

	for i := 0; i < m.demoGrants; i++ {
		name := fmt.Sprintf("Demo Grant %03d", i+1)
		donor := fmt.Sprintf("acct_demo_donor_%02d", i%5)
		amount := int64(1000 * (i + 1))

		id, err := store.CreateGrant(ctx, donor, name, amount)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
		}

		if i%2 == 0 {
			if _, err := store.ClaimGrant(ctx, recipient, id, nopPayout); err != nil {
				return fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
			}
		}
	}

	return nil
}

// ApplyMigrations applies database migrations using sql-migrate with the provided pgx pool
func ApplyMigrations(pool *pgxpool.Pool, migrationsDir string) error {
	// Create sql.DB from the pgx pool for sql-migrate
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return applyMigrations(db, migrationsDir)
}

// BootstrapRegistry fixes the admin identity and id counter at
// construction. A second call is a no-op: the admin never changes once
// set, even if a different identity is supplied later.
func BootstrapRegistry(ctx context.Context, pool *pgxpool.Pool, admin string) error {
	_, err := pool.Exec(ctx, bootstrapRegistrySQL, admin)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
	}
	return nil
}

// InitializeFeedCheckpoint initializes the feed checkpoint if not already set
func InitializeFeedCheckpoint(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, initFeedCheckpointSQL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
	}
	return nil
}

// applyMigrations applies database migrations using sql-migrate
func applyMigrations(db *sql.DB, migrationsDir string) error {
	source := &migrate.FileMigrationSource{Dir: migrationsDir}
	migrationSet := &migrate.MigrationSet{TableName: migrationsTableName}

	_, err := migrationSet.Exec(db, "postgres", source, migrate.Up)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationExecution, err)
	}
	return nil
}
