package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vuthy55/roomledger/internal/apperrors"
	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
)

type txCtxKeyType struct{}

var txCtxKey = txCtxKeyType{}

func txFromCtx(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txCtxKey).(pgx.Tx); ok {
		return tx
	}
	return nil
}

// PgxTransactor runs functions inside serializable PostgreSQL transactions
// and carries the transaction in the context so repositories join it.
type PgxTransactor struct {
	pool *pgxpool.Pool
}

// NewPgxTransactor creates a Transactor backed by the given pool.
func NewPgxTransactor(pool *pgxpool.Pool) portsrepo.Transactor {
	return &PgxTransactor{pool: pool}
}

var _ portsrepo.Transactor = (*PgxTransactor)(nil)

// WithinTx implements ports.Transactor. A nested call joins the ambient
// transaction instead of opening a new one, so service methods compose.
func (t *PgxTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromCtx(ctx) != nil {
		return fn(ctx)
	}

	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(context.WithValue(ctx, txCtxKey, tx)); err != nil {
		return mapSerializationErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapSerializationErr(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// mapSerializationErr tags serialization failures and deadlocks with
// apperrors.ErrConflict so callers can distinguish retryable races.
func mapSerializationErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
		}
	}
	return err
}
