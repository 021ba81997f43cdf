package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vuthy55/roomledger/internal/core/domain"
)

// AdjustParams carries a single ledger mutation request into the ledger
// service. Amount is a signed token delta: negative debits, positive credits.
type AdjustParams struct {
	AccountID   string
	Amount      int64
	Kind        domain.EntryKind
	Description string
	RoomID      string // optional related room
	ActorID     string // user (or "system") recorded on the entry
}

// TopUpRequest credits purchased tokens to the caller's account. Payment
// capture happens upstream; this only records the resulting credit.
type TopUpRequest struct {
	Tokens    int64  `json:"tokens" binding:"required,gt=0"`
	Reference string `json:"reference" binding:"required"`
}

// AccountResponse is the API shape of an account.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	UserID        string          `json:"userID"`
	Balance       int64           `json:"balance"`
	MonetaryValue decimal.Decimal `json:"monetaryValue"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToAccountResponse maps a domain account to its API shape, pricing the
// balance with the current token unit price.
func ToAccountResponse(a *domain.Account, unitPrice decimal.Decimal) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		UserID:        a.UserID,
		Balance:       a.Balance,
		MonetaryValue: unitPrice.Mul(decimal.NewFromInt(a.Balance)),
		CreatedAt:     a.CreatedAt,
	}
}

// LedgerEntryResponse is the API shape of one transaction log line.
type LedgerEntryResponse struct {
	EntryID      string    `json:"entryID"`
	Amount       int64     `json:"amount"`
	Kind         string    `json:"kind"`
	Description  string    `json:"description"`
	RoomID       string    `json:"roomID,omitempty"`
	BalanceAfter int64     `json:"balanceAfter"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToLedgerEntryResponses maps domain entries to their API shape.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LedgerEntryResponse{
			EntryID:      e.EntryID,
			Amount:       e.Amount,
			Kind:         string(e.Kind),
			Description:  e.Description,
			RoomID:       e.RoomID,
			BalanceAfter: e.BalanceAfter,
			CreatedAt:    e.CreatedAt,
		}
	}
	return out
}
