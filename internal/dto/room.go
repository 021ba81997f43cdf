package dto

import (
	"time"

	"github.com/vuthy55/roomledger/internal/core/domain"
)

// CreateRoomRequest schedules (or immediately starts) a metered room.
// The hold debited from the creator is sized from duration and headcount.
type CreateRoomRequest struct {
	Topic           string    `json:"topic" binding:"required"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes" binding:"required,gt=0"`
	InvitedIDs      []string  `json:"invitedIDs"`
	StartNow        bool      `json:"startNow"`
}

// UpdateRoomRequest revises a scheduled room. Nil fields are left unchanged;
// only changes that alter the estimated cost touch the ledger.
type UpdateRoomRequest struct {
	Topic           *string    `json:"topic"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	DurationMinutes *int       `json:"durationMinutes" binding:"omitempty,gt=0"`
	InvitedIDs      *[]string  `json:"invitedIDs"`
}

// RoomResponse is the API shape of a room.
type RoomResponse struct {
	RoomID          string     `json:"roomID"`
	Topic           string     `json:"topic"`
	Status          string     `json:"status"`
	CreatorID       string     `json:"creatorID"`
	ScheduledAt     time.Time  `json:"scheduledAt"`
	DurationMinutes int        `json:"durationMinutes"`
	FirstActivityAt *time.Time `json:"firstActivityAt,omitempty"`
	LastActivityAt  time.Time  `json:"lastActivityAt"`
	PrepaidCost     int64      `json:"prepaidCost"`
	EmceeIDs        []string   `json:"emceeIDs"`
	InvitedIDs      []string   `json:"invitedIDs"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// ToRoomResponse maps a domain room to its API shape.
func ToRoomResponse(r *domain.Room) RoomResponse {
	return RoomResponse{
		RoomID:          r.RoomID,
		Topic:           r.Topic,
		Status:          string(r.Status),
		CreatorID:       r.CreatorID,
		ScheduledAt:     r.ScheduledAt,
		DurationMinutes: r.DurationMinutes,
		FirstActivityAt: r.FirstActivityAt,
		LastActivityAt:  r.LastActivityAt,
		PrepaidCost:     r.PrepaidCost,
		EmceeIDs:        r.EmceeIDs,
		InvitedIDs:      r.InvitedIDs,
		CreatedAt:       r.CreatedAt,
	}
}
