package services

import (
	"context"
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

// systemActor is recorded on ledger entries written by the engine itself.
const systemActor = "system"

// ledgerService owns account balance mutation and the append-only
// transaction log.
type ledgerService struct {
	BaseService
	transactor  portsrepo.Transactor
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
	publisher   portssvc.EventPublisher
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(transactor portsrepo.Transactor, accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository, publisher portssvc.EventPublisher) portssvc.LedgerSvcFacade {
	return &ledgerService{
		transactor:  transactor,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		publisher:   publisher,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) CreateAccount(ctx context.Context, userID string, bonusTokens int64) (*domain.Account, error) {
	now := time.Now().UTC()
	account := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    userID,
		Balance:   0,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return err
		}
		if bonusTokens > 0 {
			entry, err := s.Adjust(ctx, dto.AdjustParams{
				AccountID:   account.AccountID,
				Amount:      bonusTokens,
				Kind:        domain.EntryBonus,
				Description: "signup bonus",
				ActorID:     systemActor,
			})
			if err != nil {
				return err
			}
			account.Balance = entry.BalanceAfter
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("user_id", userID))
	return &account, nil
}

// Adjust applies a signed token delta and appends one immutable ledger entry.
// The balance check and both writes happen in the same store transaction, so
// a failed debit has no partial effect. Joins an ambient transaction when
// called from room creation or reconciliation.
func (s *ledgerService) Adjust(ctx context.Context, params dto.AdjustParams) (*domain.LedgerEntry, error) {
	if params.Amount == 0 {
		return nil, fmt.Errorf("%w: adjustment amount must be non-zero", apperrors.ErrValidation)
	}
	if params.Kind == "" {
		return nil, fmt.Errorf("%w: adjustment kind is required", apperrors.ErrValidation)
	}
	actor := params.ActorID
	if actor == "" {
		actor = systemActor
	}

	var entry domain.LedgerEntry
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.FindAccountByID(ctx, params.AccountID)
		if err != nil {
			return err
		}

		newBalance := account.Balance + params.Amount
		if newBalance < 0 {
			return fmt.Errorf("%w: balance %d, requested delta %d", apperrors.ErrInsufficientFunds, account.Balance, params.Amount)
		}

		now := time.Now().UTC()
		if err := s.accountRepo.UpdateBalance(ctx, account.AccountID, newBalance, actor, now); err != nil {
			return err
		}

		entry = domain.LedgerEntry{
			EntryID:      uuid.NewString(),
			AccountID:    account.AccountID,
			Amount:       params.Amount,
			Kind:         params.Kind,
			Description:  params.Description,
			RoomID:       params.RoomID,
			BalanceAfter: newBalance,
			CreatedAt:    now,
			CreatedBy:    actor,
		}
		return s.ledgerRepo.AppendEntry(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Ledger adjusted",
		slog.String("account_id", params.AccountID),
		slog.Int64("amount", params.Amount),
		slog.String("kind", string(params.Kind)),
		slog.Int64("balance_after", entry.BalanceAfter))
	return &entry, nil
}

// TopUp credits purchased tokens. The ledger.adjusted event goes out only
// after the adjustment has committed; a publish failure is logged and
// swallowed so it cannot affect the credit.
func (s *ledgerService) TopUp(ctx context.Context, userID string, tokens int64, reference string) (*domain.LedgerEntry, error) {
	if tokens <= 0 {
		return nil, fmt.Errorf("%w: top-up amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry, err := s.Adjust(ctx, dto.AdjustParams{
		AccountID:   account.AccountID,
		Amount:      tokens,
		Kind:        domain.EntryPurchase,
		Description: fmt.Sprintf("token purchase (ref %s)", reference),
		ActorID:     userID,
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := dto.LedgerAdjustedEvent{
			EntryID:      entry.EntryID,
			AccountID:    entry.AccountID,
			Amount:       entry.Amount,
			Kind:         string(entry.Kind),
			BalanceAfter: entry.BalanceAfter,
			CreatedAt:    entry.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, portssvc.TopicLedgerAdjusted, event); err != nil {
			s.LogWarn(ctx, "Failed to publish ledger.adjusted event", slog.String("entry_id", entry.EntryID), slog.String("error", err.Error()))
		}
	}
	return entry, nil
}

func (s *ledgerService) GetAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByUserID(ctx, userID)
}

func (s *ledgerService) ListEntries(ctx context.Context, accountID string, limit, offset int) ([]domain.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.ledgerRepo.ListEntriesByAccountID(ctx, accountID, limit, offset)
}
