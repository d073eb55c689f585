package repository

import (
	"context"
	"database/sql"
)

// DBTX is the part of *sqlx.DB and *sqlx.Tx the quiz store needs.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	// Rebind converts "?" placeholders to the driver's bind style.
	Rebind(query string) string
}
