package domain

// Account holds a user's token balance.
//
// Balance is an integer token count and must never go below zero as a result
// of engine operations. Every mutation goes through the ledger service so that
// the sum of the account's ledger entries always equals the balance at commit
// time.
type Account struct {
	AccountID string `json:"accountID"` // Primary key (UUID)
	UserID    string `json:"userID"`    // Owning user; one account per user
	Balance   int64  `json:"balance"`   // Tokens, non-negative
	AuditFields
}
