package domain

import "time"

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	EntryHold       EntryKind = "HOLD"       // pre-authorized debit at room creation
	EntryRefund     EntryKind = "REFUND"     // hold returned at reconciliation
	EntryCharge     EntryKind = "CHARGE"     // overtime charge at reconciliation
	EntryAdjustment EntryKind = "ADJUSTMENT" // manual correction
	EntryPurchase   EntryKind = "PURCHASE"   // token top-up
	EntryBonus      EntryKind = "BONUS"      // signup or promotional credit
)

// LedgerEntry is one immutable line in an account's transaction log.
// Entries are append-only; they are never updated or deleted once written.
type LedgerEntry struct {
	EntryID      string    `json:"entryID"`      // Primary key (UUID)
	AccountID    string    `json:"accountID"`    // FK -> accounts
	Amount       int64     `json:"amount"`       // Signed token delta; negative for debits
	Kind         EntryKind `json:"kind"`
	Description  string    `json:"description"`
	RoomID       string    `json:"roomID"`       // Related room, empty when not room-related
	BalanceAfter int64     `json:"balanceAfter"` // Account balance snapshot after applying Amount
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"`    // UserID or "system"
}
