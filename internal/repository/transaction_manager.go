package repository

import (
	"context"
	"fmt"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type contextKey string

// TransactionContextKey holds the active *sqlx.Tx in a context.
const TransactionContextKey contextKey = "tx"

// GetExecutor returns the transaction carried by ctx, or db outside one.
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if tx, ok := ctx.Value(TransactionContextKey).(*sqlx.Tx); ok && tx != nil {
		return tx
	}
	return db
}

// TransactionManagerAdapter implements domain.TransactionManager on top of sqlx.DB.
type TransactionManagerAdapter struct {
	db *sqlx.DB
}

func NewTransactionManagerAdapter(db *sqlx.DB) domain.TransactionManager {
	return &TransactionManagerAdapter{db: db}
}

// WithTransaction commits when fn returns nil and rolls back otherwise.
// A ctx that already carries a transaction joins it instead of nesting.
func (tma *TransactionManagerAdapter) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(TransactionContextKey).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := tma.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		p := recover()
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.Get().Error("Failed to rollback transaction", zap.Error(rollbackErr), zap.NamedError("cause", err))
			if p == nil {
				err = fmt.Errorf("failed to rollback transaction: %v (original error: %w)", rollbackErr, err)
			}
		}
		if p != nil {
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, TransactionContextKey, tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		committed = true // a failed commit has already ended the transaction
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}
