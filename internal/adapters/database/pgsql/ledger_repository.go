package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
	"github.com/vuthy55/roomledger/internal/core/domain"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// NewPgxLedgerRepository creates a new repository for the append-only
// transaction log. Entries are only ever inserted and read, never updated.
func NewPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository{pool: pool}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (entry_id, account_id, amount, kind, description, room_id, balance_after, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.conn(ctx).Exec(ctx, query,
		entry.EntryID,
		entry.AccountID,
		entry.Amount,
		entry.Kind,
		entry.Description,
		entry.RoomID,
		entry.BalanceAfter,
		entry.CreatedAt,
		entry.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry %s: %w", entry.EntryID, err)
	}
	return nil
}

func (r *PgxLedgerRepository) ListEntriesByAccountID(ctx context.Context, accountID string, limit, offset int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT entry_id, account_id, amount, kind, description, room_id, balance_after, created_at, created_by
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.conn(ctx).Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(
			&e.EntryID,
			&e.AccountID,
			&e.Amount,
			&e.Kind,
			&e.Description,
			&e.RoomID,
			&e.BalanceAfter,
			&e.CreatedAt,
			&e.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row for account %s: %w", accountID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows for account %s: %w", accountID, err)
	}
	return entries, nil
}
