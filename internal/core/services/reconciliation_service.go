package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vuthy55/roomledger/internal/core/domain"
	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
	"github.com/vuthy55/roomledger/internal/dto"
)

// reconciliationService settles a room's metered cost against its hold and
// closes it exactly once.
type reconciliationService struct {
	BaseService
	transactor      portsrepo.Transactor
	roomRepo        portsrepo.RoomRepository
	participantRepo portsrepo.ParticipantRepository
	ledgerSvc       portssvc.LedgerSvcFacade
	rates           portssvc.RatePolicyProvider
	notifier        portssvc.Notifier
	publisher       portssvc.EventPublisher

	now        func() time.Time
	txAttempts int
	txBackoff  time.Duration
	txTimeout  time.Duration
}

// ReconcilerOption is a functional option for configuring the reconciliation
// service.
type ReconcilerOption func(*reconciliationService)

// WithClock overrides the time source. Tests use it to pin elapsed time.
func WithClock(now func() time.Time) ReconcilerOption {
	return func(s *reconciliationService) {
		s.now = now
	}
}

// WithRetryPolicy overrides the conflict retry knobs.
func WithRetryPolicy(attempts int, backoff, attemptTimeout time.Duration) ReconcilerOption {
	return func(s *reconciliationService) {
		s.txAttempts = attempts
		s.txBackoff = backoff
		s.txTimeout = attemptTimeout
	}
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	transactor portsrepo.Transactor,
	roomRepo portsrepo.RoomRepository,
	participantRepo portsrepo.ParticipantRepository,
	ledgerSvc portssvc.LedgerSvcFacade,
	rates portssvc.RatePolicyProvider,
	notifier portssvc.Notifier,
	publisher portssvc.EventPublisher,
	options ...ReconcilerOption,
) portssvc.ReconciliationSvcFacade {
	svc := &reconciliationService{
		transactor:      transactor,
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		ledgerSvc:       ledgerSvc,
		rates:           rates,
		notifier:        notifier,
		publisher:       publisher,
		now:             func() time.Time { return time.Now().UTC() },
		txAttempts:      3,
		txBackoff:       50 * time.Millisecond,
		txTimeout:       3 * time.Second,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// closeOutcome captures what a successful close did, for post-commit
// notifications and events. nil means the room was already closed.
type closeOutcome struct {
	room         domain.Room
	actualCost   int64
	refunded     int64
	charged      int64
	shortfall    int64
	neverStarted bool
}

// CloseAndReconcile settles and closes a room exactly once. The whole
// read-compute-write sequence runs in one store transaction; a conflicting
// concurrent writer aborts the transaction and the operation is retried from
// a fresh read. Only one retry can observe status != closed, which is what
// makes double-close structurally impossible.
func (s *reconciliationService) CloseAndReconcile(ctx context.Context, roomID string) error {
	var outcome *closeOutcome
	err := runWithConflictRetry(ctx, s.txAttempts, s.txBackoff, s.txTimeout, func(ctx context.Context) error {
		outcome = nil
		return s.transactor.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			outcome, err = s.closeOnce(ctx, roomID)
			return err
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to close and reconcile room", slog.String("room_id", roomID))
		return err
	}

	if outcome == nil {
		s.LogDebug(ctx, "Room already closed; reconciliation is a no-op", slog.String("room_id", roomID))
		return nil
	}

	s.afterClose(ctx, outcome)
	return nil
}

// closeOnce performs one settlement attempt inside an open transaction.
func (s *reconciliationService) closeOnce(ctx context.Context, roomID string) (*closeOutcome, error) {
	room, err := s.roomRepo.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// Idempotency guard: the status read and the closed write are in the same
	// transaction, so at most one concurrent caller gets past this.
	if room.Status == domain.RoomClosed {
		return nil, nil
	}

	account, err := s.ledgerSvc.GetAccountByUserID(ctx, room.CreatorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	outcome := &closeOutcome{room: *room}

	if room.FirstActivityAt == nil {
		// Case A: the room never started; return the full hold.
		outcome.neverStarted = true
		if room.PrepaidCost > 0 {
			_, err := s.ledgerSvc.Adjust(ctx, dto.AdjustParams{
				AccountID:   account.AccountID,
				Amount:      room.PrepaidCost,
				Kind:        domain.EntryRefund,
				Description: "full refund: room closed without activity",
				RoomID:      room.RoomID,
				ActorID:     systemActor,
			})
			if err != nil {
				return nil, err
			}
			outcome.refunded = room.PrepaidCost
		}
	} else {
		// Case B: the room ran; meter it. The rate is read at reconciliation
		// time, so a mid-session policy change prices the whole session.
		policy, err := s.rates.GetRates(ctx)
		if err != nil {
			return nil, err
		}

		elapsed := ceilMinutes(now.Sub(*room.FirstActivityAt))
		billable := elapsed - policy.FreeMinutes
		if billable < 0 {
			billable = 0
		}

		count, err := s.participantRepo.CountParticipants(ctx, room.RoomID)
		if err != nil {
			return nil, err
		}
		// Floor of 1: the count can race to empty on the last-leave path.
		headcount := count
		if headcount < 1 {
			headcount = 1
		}

		actualCost := int64(billable) * int64(headcount) * policy.RatePerPersonPerMinute
		outcome.actualCost = actualCost
		delta := actualCost - room.PrepaidCost

		switch {
		case delta < 0:
			_, err := s.ledgerSvc.Adjust(ctx, dto.AdjustParams{
				AccountID:   account.AccountID,
				Amount:      -delta,
				Kind:        domain.EntryRefund,
				Description: fmt.Sprintf("refund: %d min x %d participants under prepaid hold", elapsed, headcount),
				RoomID:      room.RoomID,
				ActorID:     systemActor,
			})
			if err != nil {
				return nil, err
			}
			outcome.refunded = -delta
		case delta > 0:
			// Overtime clamps to the available balance: the engine never
			// pushes a creator negative, and the shortfall is absorbed
			// rather than turned into debt.
			charge := delta
			if charge > account.Balance {
				charge = account.Balance
			}
			outcome.shortfall = delta - charge
			if charge > 0 {
				_, err := s.ledgerSvc.Adjust(ctx, dto.AdjustParams{
					AccountID:   account.AccountID,
					Amount:      -charge,
					Kind:        domain.EntryCharge,
					Description: fmt.Sprintf("overtime charge: %d min x %d participants over prepaid hold", elapsed, headcount),
					RoomID:      room.RoomID,
					ActorID:     systemActor,
				})
				if err != nil {
					return nil, err
				}
				outcome.charged = charge
			}
		}
	}

	room.Status = domain.RoomClosed
	room.LastActivityAt = now
	room.LastUpdatedAt = now
	room.LastUpdatedBy = systemActor
	if err := s.roomRepo.UpdateRoom(ctx, *room); err != nil {
		return nil, err
	}
	outcome.room = *room
	return outcome, nil
}

// afterClose sends notifications and events. Strictly post-commit: a failure
// here is logged and dropped, never propagated into the financial path.
func (s *reconciliationService) afterClose(ctx context.Context, outcome *closeOutcome) {
	s.LogInfo(ctx, "Room closed and reconciled",
		slog.String("room_id", outcome.room.RoomID),
		slog.Int64("prepaid_cost", outcome.room.PrepaidCost),
		slog.Int64("actual_cost", outcome.actualCost),
		slog.Int64("refunded", outcome.refunded),
		slog.Int64("charged", outcome.charged),
		slog.Bool("never_started", outcome.neverStarted))
	if outcome.shortfall > 0 {
		s.LogWarn(ctx, "Overtime shortfall absorbed",
			slog.String("room_id", outcome.room.RoomID),
			slog.Int64("shortfall", outcome.shortfall))
	}

	if s.notifier != nil {
		var msg string
		switch {
		case outcome.refunded > 0:
			msg = fmt.Sprintf("Your room %q has closed. %d tokens were refunded to your account.", outcome.room.Topic, outcome.refunded)
		case outcome.charged > 0:
			msg = fmt.Sprintf("Your room %q has closed. %d tokens were charged for overtime.", outcome.room.Topic, outcome.charged)
		default:
			msg = fmt.Sprintf("Your room %q has closed.", outcome.room.Topic)
		}
		if err := s.notifier.Notify(ctx, outcome.room.CreatorID, msg); err != nil {
			s.LogWarn(ctx, "Failed to notify creator of room close",
				slog.String("room_id", outcome.room.RoomID), slog.String("error", err.Error()))
		}
	}

	if s.publisher != nil {
		event := dto.RoomClosedEvent{
			RoomID:         outcome.room.RoomID,
			CreatorID:      outcome.room.CreatorID,
			PrepaidCost:    outcome.room.PrepaidCost,
			ActualCost:     outcome.actualCost,
			RefundedTokens: outcome.refunded,
			ChargedTokens:  outcome.charged,
			NeverStarted:   outcome.neverStarted,
			ClosedAt:       outcome.room.LastActivityAt,
		}
		if err := s.publisher.Publish(ctx, portssvc.TopicRoomClosed, event); err != nil {
			s.LogWarn(ctx, "Failed to publish room.closed event",
				slog.String("room_id", outcome.room.RoomID), slog.String("error", err.Error()))
		}
	}
}

// ceilMinutes rounds a duration up to whole minutes. A 125s session bills as
// 3 minutes.
func ceilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}
