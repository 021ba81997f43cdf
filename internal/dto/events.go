package dto

import "time"

// RoomClosedEvent is published after a reconciling transaction commits.
type RoomClosedEvent struct {
	RoomID         string    `json:"roomID"`
	CreatorID      string    `json:"creatorID"`
	PrepaidCost    int64     `json:"prepaidCost"`
	ActualCost     int64     `json:"actualCost"`
	RefundedTokens int64     `json:"refundedTokens"`
	ChargedTokens  int64     `json:"chargedTokens"`
	NeverStarted   bool      `json:"neverStarted"`
	ClosedAt       time.Time `json:"closedAt"`
}

// LedgerAdjustedEvent is published after a standalone ledger mutation
// (top-ups) commits.
type LedgerAdjustedEvent struct {
	EntryID      string    `json:"entryID"`
	AccountID    string    `json:"accountID"`
	Amount       int64     `json:"amount"`
	Kind         string    `json:"kind"`
	BalanceAfter int64     `json:"balanceAfter"`
	CreatedAt    time.Time `json:"createdAt"`
}
