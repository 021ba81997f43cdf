package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vuthy55/roomledger/internal/apperrors"
	"github.com/vuthy55/roomledger/internal/core/domain"
	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
	"github.com/vuthy55/roomledger/internal/dto"
)

var (
	ErrNotRoomCreator  = errors.New("only the room creator may revise the schedule")
	ErrRoomNotEditable = errors.New("only scheduled rooms can be revised")
)

// roomService owns room creation, scheduling and the scheduled->active
// transition.
type roomService struct {
	BaseService
	transactor portsrepo.Transactor
	roomRepo   portsrepo.RoomRepository
	ledgerSvc  portssvc.LedgerSvcFacade
	rates      portssvc.RatePolicyProvider
}

// NewRoomService creates a new RoomService.
func NewRoomService(transactor portsrepo.Transactor, roomRepo portsrepo.RoomRepository, ledgerSvc portssvc.LedgerSvcFacade, rates portssvc.RatePolicyProvider) portssvc.RoomSvcFacade {
	return &roomService{
		transactor: transactor,
		roomRepo:   roomRepo,
		ledgerSvc:  ledgerSvc,
		rates:      rates,
	}
}

var _ portssvc.RoomSvcFacade = (*roomService)(nil)

// estimateCost sizes the pre-authorized hold: planned billable minutes times
// planned headcount (creator plus invitees) times the per-person rate.
func estimateCost(policy domain.RatePolicy, durationMinutes, invitedCount int) int64 {
	billable := durationMinutes - policy.FreeMinutes
	if billable < 0 {
		billable = 0
	}
	headcount := invitedCount + 1
	return int64(billable) * int64(headcount) * policy.RatePerPersonPerMinute
}

func (s *roomService) CreateRoom(ctx context.Context, creatorID string, req dto.CreateRoomRequest) (*domain.Room, error) {
	policy, err := s.rates.GetRates(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.ledgerSvc.GetAccountByUserID(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	cost := estimateCost(policy, req.DurationMinutes, len(req.InvitedIDs))
	now := time.Now().UTC()

	room := domain.Room{
		RoomID:          uuid.NewString(),
		Topic:           req.Topic,
		Status:          domain.RoomScheduled,
		CreatorID:       creatorID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		LastActivityAt:  now,
		PrepaidCost:     cost,
		EmceeIDs:        []string{creatorID},
		InvitedIDs:      req.InvitedIDs,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if room.ScheduledAt.IsZero() {
		room.ScheduledAt = now
	}
	if req.StartNow {
		room.Status = domain.RoomActive
		firstActivity := now
		room.FirstActivityAt = &firstActivity
	}

	// The hold and the room row commit together: a room never exists without
	// its hold, and an insufficient-funds rejection leaves nothing behind.
	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if cost > 0 {
			_, err := s.ledgerSvc.Adjust(ctx, dto.AdjustParams{
				AccountID:   account.AccountID,
				Amount:      -cost,
				Kind:        domain.EntryHold,
				Description: fmt.Sprintf("hold for room %q", req.Topic),
				RoomID:      room.RoomID,
				ActorID:     creatorID,
			})
			if err != nil {
				return err
			}
		}
		return s.roomRepo.SaveRoom(ctx, room)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			s.LogError(ctx, err, "Failed to create room", slog.String("creator_id", creatorID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Room created",
		slog.String("room_id", room.RoomID),
		slog.String("creator_id", creatorID),
		slog.Int64("prepaid_cost", cost))
	return &room, nil
}

func (s *roomService) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	return s.roomRepo.FindRoomByID(ctx, roomID)
}

// MarkFirstActivity is the explicit scheduled->active trigger (first message
// or event in the room). Idempotent: the stamp is set exactly once.
func (s *roomService) MarkFirstActivity(ctx context.Context, roomID string) error {
	return s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		room, err := s.roomRepo.FindRoomByID(ctx, roomID)
		if err != nil {
			return err
		}
		if room.Status == domain.RoomClosed {
			return fmt.Errorf("%w: room %s", apperrors.ErrRoomClosed, roomID)
		}
		if room.FirstActivityAt != nil {
			return nil
		}

		now := time.Now().UTC()
		room.FirstActivityAt = &now
		room.Status = domain.RoomActive
		room.LastActivityAt = now
		room.LastUpdatedAt = now
		room.LastUpdatedBy = systemActor
		return s.roomRepo.UpdateRoom(ctx, *room)
	})
}

// ReviseSchedule edits a scheduled room. When the revision changes the
// estimated cost, the old hold is released and the new one charged inside one
// transaction, referencing the room on both entries; metadata-only edits make
// no ledger noise.
func (s *roomService) ReviseSchedule(ctx context.Context, roomID, userID string, req dto.UpdateRoomRequest) (*domain.Room, error) {
	policy, err := s.rates.GetRates(ctx)
	if err != nil {
		return nil, err
	}

	var revised *domain.Room
	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		room, err := s.roomRepo.FindRoomByID(ctx, roomID)
		if err != nil {
			return err
		}
		if room.CreatorID != userID {
			return fmt.Errorf("%w: user %s", ErrNotRoomCreator, userID)
		}
		if room.Status != domain.RoomScheduled {
			return fmt.Errorf("%w: room %s is %s", ErrRoomNotEditable, roomID, room.Status)
		}

		if req.Topic != nil {
			room.Topic = *req.Topic
		}
		if req.ScheduledAt != nil {
			room.ScheduledAt = *req.ScheduledAt
		}
		if req.DurationMinutes != nil {
			room.DurationMinutes = *req.DurationMinutes
		}
		if req.InvitedIDs != nil {
			room.InvitedIDs = *req.InvitedIDs
		}

		newCost := estimateCost(policy, room.DurationMinutes, len(room.InvitedIDs))
		if newCost != room.PrepaidCost {
			account, err := s.ledgerSvc.GetAccountByUserID(ctx, room.CreatorID)
			if err != nil {
				return err
			}
			if room.PrepaidCost > 0 {
				_, err = s.ledgerSvc.Adjust(ctx, dto.AdjustParams{
					AccountID:   account.AccountID,
					Amount:      room.PrepaidCost,
					Kind:        domain.EntryRefund,
					Description: "hold released on schedule revision",
					RoomID:      room.RoomID,
					ActorID:     userID,
				})
				if err != nil {
					return err
				}
			}
			if newCost > 0 {
				_, err = s.ledgerSvc.Adjust(ctx, dto.AdjustParams{
					AccountID:   account.AccountID,
					Amount:      -newCost,
					Kind:        domain.EntryHold,
					Description: "hold for revised schedule",
					RoomID:      room.RoomID,
					ActorID:     userID,
				})
				if err != nil {
					return err
				}
			}
			room.PrepaidCost = newCost
		}

		now := time.Now().UTC()
		room.LastUpdatedAt = now
		room.LastUpdatedBy = userID
		if err := s.roomRepo.UpdateRoom(ctx, *room); err != nil {
			return err
		}
		revised = room
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Room schedule revised",
		slog.String("room_id", roomID),
		slog.Int64("prepaid_cost", revised.PrepaidCost))
	return revised, nil
}
