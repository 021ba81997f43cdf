package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vuthy55/roomledger/internal/apperrors"
	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
	"github.com/vuthy55/roomledger/internal/core/domain"
)

type PgxAccountRepository struct {
	BaseRepository
}

// NewPgxAccountRepository creates a new repository for token accounts.
func NewPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository{pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, user_id, balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.conn(ctx).Exec(ctx, query,
		account.AccountID,
		account.UserID,
		account.Balance,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account %s: %w", account.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, user_id, balance, created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE account_id = $1;
	`
	return r.scanAccount(ctx, query, accountID)
}

func (r *PgxAccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	query := `
		SELECT account_id, user_id, balance, created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE user_id = $1;
	`
	return r.scanAccount(ctx, query, userID)
}

func (r *PgxAccountRepository) scanAccount(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	err := r.conn(ctx).QueryRow(ctx, query, arg).Scan(
		&account.AccountID,
		&account.UserID,
		&account.Balance,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &account, nil
}

func (r *PgxAccountRepository) UpdateBalance(ctx context.Context, accountID string, newBalance int64, updatedBy string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	tag, err := r.conn(ctx).Exec(ctx, query, accountID, newBalance, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
