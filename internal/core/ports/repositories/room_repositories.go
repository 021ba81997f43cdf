package repositories

import (
	"context"

	"github.com/vuthy55/roomledger/internal/core/domain"
)

// RoomRepository persists rooms.
type RoomRepository interface {
	// SaveRoom inserts a new room.
	SaveRoom(ctx context.Context, room domain.Room) error

	// FindRoomByID retrieves a room by its primary key.
	// Returns apperrors.ErrNotFound if absent.
	FindRoomByID(ctx context.Context, roomID string) (*domain.Room, error)

	// UpdateRoom rewrites the room's mutable fields (status, activity stamps,
	// prepaid cost, emcee set, audit fields). Callers must have re-read the
	// room inside the same transaction; status transitions are not commutative.
	UpdateRoom(ctx context.Context, room domain.Room) error
}

// ParticipantRepository persists room presence. A participant row existing is
// the presence signal; deleting it is the leave signal.
type ParticipantRepository interface {
	// SaveParticipant inserts a participant row.
	SaveParticipant(ctx context.Context, p domain.Participant) error

	// FindParticipant retrieves one participant row.
	// Returns apperrors.ErrNotFound if absent.
	FindParticipant(ctx context.Context, roomID, userID string) (*domain.Participant, error)

	// ListParticipants returns all participants of a room ordered by join time
	// (earliest first), which makes emcee promotion deterministic.
	ListParticipants(ctx context.Context, roomID string) ([]domain.Participant, error)

	// DeleteParticipant removes a participant row.
	DeleteParticipant(ctx context.Context, roomID, userID string) error

	// CountParticipants returns the number of present participants.
	CountParticipants(ctx context.Context, roomID string) (int, error)
}
