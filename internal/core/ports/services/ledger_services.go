package services

import (
	"context"

	"github.com/vuthy55/roomledger/internal/core/domain"
	"github.com/vuthy55/roomledger/internal/dto"
)

// LedgerSvcFacade owns account balance mutation and the append-only
// transaction log. Everything else in the engine settles money through it.
type LedgerSvcFacade interface {
	// CreateAccount creates a user's token account, optionally seeded with a
	// bonus credit.
	CreateAccount(ctx context.Context, userID string, bonusTokens int64) (*domain.Account, error)

	// Adjust applies a signed token delta and appends one ledger entry, both
	// inside a single store transaction. Negative deltas that would push the
	// balance below zero fail with apperrors.ErrInsufficientFunds and have no
	// partial effect. The effect is exactly-once per call; idempotency across
	// retries is the caller's concern.
	Adjust(ctx context.Context, params dto.AdjustParams) (*domain.LedgerEntry, error)

	// TopUp credits purchased tokens to a user's account and emits a
	// ledger.adjusted event after commit. Payment capture is external.
	TopUp(ctx context.Context, userID string, tokens int64, reference string) (*domain.LedgerEntry, error)

	// GetAccountByUserID returns the user's account.
	GetAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)

	// ListEntries returns the account's transaction log, newest first.
	ListEntries(ctx context.Context, accountID string, limit, offset int) ([]domain.LedgerEntry, error)
}
