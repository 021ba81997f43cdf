package services

import (
	"context"

	"github.com/vuthy55/roomledger/internal/core/domain"
	"github.com/vuthy55/roomledger/internal/dto"
)

// RoomSvcFacade owns room creation, scheduling and the scheduled->active
// transition. Closing is owned by the reconciliation service.
type RoomSvcFacade interface {
	// CreateRoom creates a room and debits the pre-authorized cost hold from
	// the creator's account in the same transaction.
	CreateRoom(ctx context.Context, creatorID string, req dto.CreateRoomRequest) (*domain.Room, error)

	// GetRoom returns a room by ID.
	GetRoom(ctx context.Context, roomID string) (*domain.Room, error)

	// MarkFirstActivity stamps firstActivityAt and flips a scheduled room to
	// active. Idempotent: a no-op when the stamp is already set.
	MarkFirstActivity(ctx context.Context, roomID string) error

	// ReviseSchedule edits a scheduled room. When the revision changes the
	// estimated cost, the old hold is refunded and the new one charged inside
	// one transaction; metadata-only edits leave the ledger untouched.
	ReviseSchedule(ctx context.Context, roomID, userID string, req dto.UpdateRoomRequest) (*domain.Room, error)
}
