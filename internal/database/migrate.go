package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var migrationFS embed.FS

// MigrationDir returns the embedded migration directory for a driver.
func MigrationDir(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return "migrations/postgres", nil
	case DriverSQLite:
		return "migrations/sqlite", nil
	default:
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

func newMigrator(db *sqlx.DB) (*migrate.Migrate, error) {
	dir, err := MigrationDir(db.DriverName())
	if err != nil {
		return nil, err
	}

	src, err := iofs.New(migrationFS, dir)
	if err != nil {
		return nil, fmt.Errorf("could not open migrations: %w", err)
	}

	var target migratedb.Driver
	switch db.DriverName() {
	case DriverPostgres:
		target, err = migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	case DriverSQLite:
		target, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("could not prepare migration driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", src, db.DriverName(), target)
}

// MigrateUp applies every pending migration. An up-to-date schema is not an error.
func MigrateUp(db *sqlx.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply migrations: %w", err)
	}
	return nil
}

// MigrateDown reverts every applied migration.
func MigrateDown(db *sqlx.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not revert migrations: %w", err)
	}
	return nil
}
