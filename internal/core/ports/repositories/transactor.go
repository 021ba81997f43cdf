package repositories

import "context"

// Transactor runs a function inside a single store transaction. It is the
// engine's only atomicity primitive: every multi-entity mutation (balance +
// ledger entry, room status + settlement) goes through one WithinTx call.
//
// Implementations must join an ambient transaction: if ctx already carries a
// transaction started by an outer WithinTx, fn runs inside it rather than
// opening a nested one. A commit-time conflict is reported as
// apperrors.ErrConflict so that callers can retry the whole operation.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
