package database

import (
	"fmt"
	"strings"

	"wikiquiz/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// ParseDSN maps a database URL onto a registered driver name and the data
// source string that driver expects. Supported schemes are sqlite://,
// postgres:// and postgresql://.
//
// SQLite URLs follow the SQLAlchemy layout: "sqlite:///rel.db" names a path
// relative to the working directory and "sqlite:////abs.db" an absolute one.
// The two-slash form "sqlite://rel.db" is also read as relative.
func ParseDSN(dsn string) (driver, source string, err error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		source = strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite://"), "/")
		if source == "" {
			return "", "", fmt.Errorf("sqlite DSN %q has no database path", dsn)
		}
		return DriverSQLite, source, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres, dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database DSN %q: expected sqlite:// or postgres://", dsn)
	}
}

// Connect opens and pings the database named by cfg.DSN.
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	driver, source, err := ParseDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	// SQLite allows one writer at a time.
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}
