package services

import (
	"context"

	"github.com/vuthy55/roomledger/internal/core/domain"
	"github.com/vuthy55/roomledger/internal/dto"
)

// PresenceSvcFacade owns the set of participants inside a room and emcee
// role continuity.
type PresenceSvcFacade interface {
	// Join adds a participant to a room. Re-joining while present is a no-op.
	Join(ctx context.Context, roomID, userID string) (*domain.Participant, error)

	// Leave removes a participant. Idempotent: leaving an already-closed room
	// or being already absent returns success with no state change. When the
	// last participant leaves, the result's ReconciliationRequired flag tells
	// the caller to run CloseAndReconcile as a separate follow-up transaction.
	Leave(ctx context.Context, roomID, userID string) (*dto.LeaveResult, error)
}

// ReconciliationSvcFacade settles a room's metered cost against its hold and
// closes it exactly once.
type ReconciliationSvcFacade interface {
	// CloseAndReconcile computes the actual session cost, issues at most one
	// net ledger adjustment (refund or clamped charge) and flips the room to
	// closed. Safe to call concurrently and repeatedly: re-invocation on a
	// closed room is a success no-op, and conflicting writers are retried a
	// bounded number of times.
	CloseAndReconcile(ctx context.Context, roomID string) error
}
