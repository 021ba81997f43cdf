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

type PgxParticipantRepository struct {
	BaseRepository
}

// NewPgxParticipantRepository creates a new repository for room presence.
func NewPgxParticipantRepository(pool *pgxpool.Pool) portsrepo.ParticipantRepository {
	return &PgxParticipantRepository{BaseRepository{pool: pool}}
}

var _ portsrepo.ParticipantRepository = (*PgxParticipantRepository)(nil)

func (r *PgxParticipantRepository) SaveParticipant(ctx context.Context, p domain.Participant) error {
	query := `
		INSERT INTO participants (room_id, user_id, email, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.conn(ctx).Exec(ctx, query, p.RoomID, p.UserID, p.Email, p.JoinedAt)
	if err != nil {
		return fmt.Errorf("failed to insert participant %s in room %s: %w", p.UserID, p.RoomID, err)
	}
	return nil
}

func (r *PgxParticipantRepository) FindParticipant(ctx context.Context, roomID, userID string) (*domain.Participant, error) {
	query := `
		SELECT room_id, user_id, email, joined_at
		FROM participants
		WHERE room_id = $1 AND user_id = $2;
	`
	var p domain.Participant
	err := r.conn(ctx).QueryRow(ctx, query, roomID, userID).Scan(&p.RoomID, &p.UserID, &p.Email, &p.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find participant %s in room %s: %w", userID, roomID, err)
	}
	return &p, nil
}

func (r *PgxParticipantRepository) ListParticipants(ctx context.Context, roomID string) ([]domain.Participant, error) {
	query := `
		SELECT room_id, user_id, email, joined_at
		FROM participants
		WHERE room_id = $1
		ORDER BY joined_at, user_id;
	`
	rows, err := r.conn(ctx).Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for room %s: %w", roomID, err)
	}
	defer rows.Close()

	participants := []domain.Participant{}
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.RoomID, &p.UserID, &p.Email, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant row for room %s: %w", roomID, err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows for room %s: %w", roomID, err)
	}
	return participants, nil
}

func (r *PgxParticipantRepository) DeleteParticipant(ctx context.Context, roomID, userID string) error {
	query := `DELETE FROM participants WHERE room_id = $1 AND user_id = $2;`
	tag, err := r.conn(ctx).Exec(ctx, query, roomID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete participant %s from room %s: %w", userID, roomID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxParticipantRepository) CountParticipants(ctx context.Context, roomID string) (int, error) {
	query := `SELECT COUNT(*) FROM participants WHERE room_id = $1;`
	var count int
	if err := r.conn(ctx).QueryRow(ctx, query, roomID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants for room %s: %w", roomID, err)
	}
	return count, nil
}
