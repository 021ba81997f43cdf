package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx operations repositories need. Both *pgxpool.Pool
// and pgx.Tx satisfy it, which lets every repository method run against the
// ambient transaction when one is present.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BaseRepository provides pool access and transaction resolution shared by
// all pgsql repositories.
type BaseRepository struct {
	pool *pgxpool.Pool
}

// conn returns the transaction carried in ctx if the caller is inside a
// Transactor.WithinTx block, otherwise the pool.
func (r *BaseRepository) conn(ctx context.Context) DBTX {
	if tx := txFromCtx(ctx); tx != nil {
		return tx
	}
	return r.pool
}
