package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vuthy55/roomledger/internal/apperrors"
	"github.com/vuthy55/roomledger/internal/core/domain"
	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
	"github.com/vuthy55/roomledger/internal/dto"
)

// presenceService owns the participant set and emcee continuity. Presence
// races are the primary source of bugs in this area, so Leave records every
// step to an ordered trace returned to the caller.
type presenceService struct {
	BaseService
	transactor      portsrepo.Transactor
	roomRepo        portsrepo.RoomRepository
	participantRepo portsrepo.ParticipantRepository
	userRepo        portsrepo.UserRepository
	notifier        portssvc.Notifier

	txAttempts int
	txBackoff  time.Duration
	txTimeout  time.Duration
}

// NewPresenceService creates a new PresenceService.
func NewPresenceService(transactor portsrepo.Transactor, roomRepo portsrepo.RoomRepository, participantRepo portsrepo.ParticipantRepository, userRepo portsrepo.UserRepository, notifier portssvc.Notifier) portssvc.PresenceSvcFacade {
	return &presenceService{
		transactor:      transactor,
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		txAttempts:      3,
		txBackoff:       50 * time.Millisecond,
		txTimeout:       3 * time.Second,
	}
}

var _ portssvc.PresenceSvcFacade = (*presenceService)(nil)

func (s *presenceService) Join(ctx context.Context, roomID, userID string) (*domain.Participant, error) {
	var participant *domain.Participant
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		room, err := s.roomRepo.FindRoomByID(ctx, roomID)
		if err != nil {
			return err
		}
		if room.Status == domain.RoomClosed {
			return fmt.Errorf("%w: cannot join room %s", apperrors.ErrRoomClosed, roomID)
		}

		existing, err := s.participantRepo.FindParticipant(ctx, roomID, userID)
		if err == nil {
			participant = existing
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		user, err := s.userRepo.FindUserByID(ctx, userID)
		if err != nil {
			return err
		}

		p := domain.Participant{
			RoomID:   roomID,
			UserID:   userID,
			Email:    user.Email,
			JoinedAt: time.Now().UTC(),
		}
		if err := s.participantRepo.SaveParticipant(ctx, p); err != nil {
			return err
		}
		participant = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Participant joined", slog.String("room_id", roomID), slog.String("user_id", userID))
	return participant, nil
}

// Leave runs the presence phase of the two-phase leave protocol. The
// reconciling close never happens here: when the last participant departs,
// the returned result instructs the caller to run CloseAndReconcile in a
// separate follow-up transaction, so a settlement failure cannot roll back
// the departure itself.
func (s *presenceService) Leave(ctx context.Context, roomID, userID string) (*dto.LeaveResult, error) {
	var result *dto.LeaveResult
	err := runWithConflictRetry(ctx, s.txAttempts, s.txBackoff, s.txTimeout, func(ctx context.Context) error {
		result = &dto.LeaveResult{Trace: []string{}}
		trace := func(format string, args ...any) {
			msg := fmt.Sprintf(format, args...)
			result.Trace = append(result.Trace, msg)
			s.LogDebug(ctx, "leave: "+msg, slog.String("room_id", roomID), slog.String("user_id", userID))
		}

		return s.transactor.WithinTx(ctx, func(ctx context.Context) error {
			room, err := s.roomRepo.FindRoomByID(ctx, roomID)
			if errors.Is(err, apperrors.ErrNotFound) {
				trace("room %s not found; treating leave as a no-op", roomID)
				return nil
			}
			if err != nil {
				return err
			}
			trace("room %s loaded, status %s", roomID, room.Status)

			if room.Status == domain.RoomClosed {
				trace("room already closed; leave is a no-op")
				return nil
			}

			if _, err := s.participantRepo.FindParticipant(ctx, roomID, userID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					trace("participant %s already absent; leave is a no-op", userID)
					return nil
				}
				return err
			}

			if err := s.participantRepo.DeleteParticipant(ctx, roomID, userID); err != nil {
				return err
			}
			result.Left = true
			trace("deleted participant record for %s", userID)

			remaining, err := s.participantRepo.ListParticipants(ctx, roomID)
			if err != nil {
				return err
			}
			trace("%d participants remain", len(remaining))

			if len(remaining) == 0 {
				// Close must run as its own transaction so it sees this
				// departure committed.
				result.ReconciliationRequired = true
				trace("last participant left; room must be reconciled and closed")
				return nil
			}

			if room.IsEmcee(userID) {
				room.RemoveEmcee(userID)
				if len(room.EmceeIDs) == 0 {
					promoted := remaining[0] // earliest joined; list is join-ordered
					room.EmceeIDs = []string{promoted.UserID}
					result.PromotedEmceeID = promoted.UserID
					trace("last emcee left; promoted %s (earliest joined) to emcee", promoted.UserID)
				} else {
					trace("emcee %s removed; %d emcees remain", userID, len(room.EmceeIDs))
				}
				now := time.Now().UTC()
				room.LastUpdatedAt = now
				room.LastUpdatedBy = systemActor
				if err := s.roomRepo.UpdateRoom(ctx, *room); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Leave failed", slog.String("room_id", roomID), slog.String("user_id", userID))
		return nil, err
	}

	if result.PromotedEmceeID != "" && s.notifier != nil {
		if err := s.notifier.Notify(ctx, result.PromotedEmceeID, "You are now the emcee of this room."); err != nil {
			s.LogWarn(ctx, "Failed to notify promoted emcee", slog.String("user_id", result.PromotedEmceeID), slog.String("error", err.Error()))
		}
	}
	return result, nil
}
