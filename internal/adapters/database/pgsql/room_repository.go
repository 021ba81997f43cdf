package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vuthy55/roomledger/internal/apperrors"
	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
	"github.com/vuthy55/roomledger/internal/core/domain"
)

type PgxRoomRepository struct {
	BaseRepository
}

// NewPgxRoomRepository creates a new repository for rooms.
func NewPgxRoomRepository(pool *pgxpool.Pool) portsrepo.RoomRepository {
	return &PgxRoomRepository{BaseRepository{pool: pool}}
}

var _ portsrepo.RoomRepository = (*PgxRoomRepository)(nil)

func (r *PgxRoomRepository) SaveRoom(ctx context.Context, room domain.Room) error {
	query := `
		INSERT INTO rooms (room_id, topic, status, creator_id, scheduled_at, duration_minutes, first_activity_at, last_activity_at, prepaid_cost, emcee_ids, invited_ids, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.conn(ctx).Exec(ctx, query,
		room.RoomID,
		room.Topic,
		room.Status,
		room.CreatorID,
		room.ScheduledAt,
		room.DurationMinutes,
		room.FirstActivityAt,
		room.LastActivityAt,
		room.PrepaidCost,
		room.EmceeIDs,
		room.InvitedIDs,
		room.CreatedAt,
		room.CreatedBy,
		room.LastUpdatedAt,
		room.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert room %s: %w", room.RoomID, err)
	}
	return nil
}

func (r *PgxRoomRepository) FindRoomByID(ctx context.Context, roomID string) (*domain.Room, error) {
	query := `
		SELECT room_id, topic, status, creator_id, scheduled_at, duration_minutes, first_activity_at, last_activity_at, prepaid_cost, emcee_ids, invited_ids, created_at, created_by, last_updated_at, last_updated_by
		FROM rooms
		WHERE room_id = $1;
	`
	var room domain.Room
	err := r.conn(ctx).QueryRow(ctx, query, roomID).Scan(
		&room.RoomID,
		&room.Topic,
		&room.Status,
		&room.CreatorID,
		&room.ScheduledAt,
		&room.DurationMinutes,
		&room.FirstActivityAt,
		&room.LastActivityAt,
		&room.PrepaidCost,
		&room.EmceeIDs,
		&room.InvitedIDs,
		&room.CreatedAt,
		&room.CreatedBy,
		&room.LastUpdatedAt,
		&room.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room %s: %w", roomID, err)
	}
	return &room, nil
}

func (r *PgxRoomRepository) UpdateRoom(ctx context.Context, room domain.Room) error {
	query := `
		UPDATE rooms
		SET topic = $2, status = $3, scheduled_at = $4, duration_minutes = $5, first_activity_at = $6, last_activity_at = $7, prepaid_cost = $8, emcee_ids = $9, invited_ids = $10, last_updated_at = $11, last_updated_by = $12
		WHERE room_id = $1;
	`
	tag, err := r.conn(ctx).Exec(ctx, query,
		room.RoomID,
		room.Topic,
		room.Status,
		room.ScheduledAt,
		room.DurationMinutes,
		room.FirstActivityAt,
		room.LastActivityAt,
		room.PrepaidCost,
		room.EmceeIDs,
		room.InvitedIDs,
		room.LastUpdatedAt,
		room.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update room %s: %w", room.RoomID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
