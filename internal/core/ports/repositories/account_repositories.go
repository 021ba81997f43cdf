package repositories

import (
	"context"
	"time"

	"github.com/vuthy55/roomledger/internal/core/domain"
)

// AccountRepository persists token accounts.
type AccountRepository interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// FindAccountByID retrieves an account by its primary key.
	// Returns apperrors.ErrNotFound if absent.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByUserID retrieves the account owned by a user.
	// Returns apperrors.ErrNotFound if absent.
	FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)

	// UpdateBalance writes a new balance for the account. Callers must have
	// re-read the account inside the same transaction.
	UpdateBalance(ctx context.Context, accountID string, newBalance int64, updatedBy string, now time.Time) error
}

// LedgerRepository persists the append-only transaction log.
type LedgerRepository interface {
	// AppendEntry writes one immutable ledger entry.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) error

	// ListEntriesByAccountID returns entries for an account, newest first.
	ListEntriesByAccountID(ctx context.Context, accountID string, limit, offset int) ([]domain.LedgerEntry, error)
}
