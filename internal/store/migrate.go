package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/farolescolar/farol/schema"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	mysqlmigrate "github.com/golang-migrate/migrate/v4/database/mysql"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// migrationsTable is the version table golang-migrate maintains.
const migrationsTable = "schema_migrations"

// MigrationResult reports the schema version before and after a migration.
type MigrationResult struct {
	From    uint
	To      uint
	Changed bool
}

// migrationDirs maps each backend to its dialect's migration files.
var migrationDirs = map[schema.DatabaseBackend]string{
	schema.SQLiteBackend:     "migrations/sqlite",
	schema.MySQLBackend:      "migrations/mysql",
	schema.PostgreSQLBackend: "migrations/postgres",
}

// Migrate runs the record store migrations on a dedicated connection.
//   - If targetVersion < 0, it migrates to the latest version.
//   - If targetVersion == 0, it rolls back all migrations.
//   - If targetVersion > 0, it migrates to the specified version.
func Migrate(backend schema.DatabaseBackend, connStr string, targetVersion int) (MigrationResult, error) {
	connStr, err := migrationConnString(backend, connStr)
	if err != nil {
		return MigrationResult{}, err
	}
	db, err := openDB(backend, connStr)
	if err != nil {
		return MigrationResult{}, err
	}
	m, err := newMigrator(db, backend)
	if err != nil {
		_ = db.Close()
		return MigrationResult{}, err
	}
	defer func() { _, _ = m.Close() }() // also closes db
	return runMigration(m, targetVersion)
}

// newMigrator builds a migrate instance over an open database.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var driver database.Driver
	var err error
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{MigrationsTable: migrationsTable})
	case schema.MySQLBackend:
		driver, err = mysqlmigrate.WithInstance(db, &mysqlmigrate.Config{MigrationsTable: migrationsTable})
	case schema.PostgreSQLBackend:
		driver, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{MigrationsTable: migrationsTable})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	sub, err := fs.Sub(migrationsFS, migrationDirs[backend])
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "farol", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// runMigration moves the schema to targetVersion, following the rules of Migrate.
func runMigration(m *migrate.Migrate, targetVersion int) (MigrationResult, error) {
	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return MigrationResult{}, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", current)
	}
	res := MigrationResult{From: current, To: current}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("failed to migrate from version %d: %w", current, err)
	}

	res.Changed = true
	res.To = 0
	if v, _, err := m.Version(); err == nil {
		res.To = v
	}
	return res, nil
}
