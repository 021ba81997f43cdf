package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vuthy55/roomledger/internal/apperrors"
	"github.com/vuthy55/roomledger/internal/core/domain"
	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
	"github.com/vuthy55/roomledger/internal/dto"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	env *testEnv
	ctx context.Context
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.env = newTestEnv()
	s.ctx = context.Background()
}

func (s *LedgerServiceTestSuite) TestCreateAccount_WithBonus() {
	account, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)
	s.Equal(int64(100), account.Balance)

	entries, err := s.env.ledger.ListEntries(s.ctx, account.AccountID, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(domain.EntryBonus, entries[0].Kind)
	s.Equal(int64(100), entries[0].BalanceAfter)
}

func (s *LedgerServiceTestSuite) TestAdjust_DebitAndCredit() {
	account, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	entry, err := s.env.ledger.Adjust(s.ctx, dto.AdjustParams{
		AccountID:   account.AccountID,
		Amount:      -40,
		Kind:        domain.EntryHold,
		Description: "hold",
		ActorID:     "alice",
	})
	s.Require().NoError(err)
	s.Equal(int64(60), entry.BalanceAfter)

	entry, err = s.env.ledger.Adjust(s.ctx, dto.AdjustParams{
		AccountID: account.AccountID,
		Amount:    15,
		Kind:      domain.EntryRefund,
		ActorID:   "alice",
	})
	s.Require().NoError(err)
	s.Equal(int64(75), entry.BalanceAfter)

	updated, err := s.env.ledger.GetAccountByUserID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(75), updated.Balance)
}

func (s *LedgerServiceTestSuite) TestAdjust_InsufficientFundsHasNoPartialEffect() {
	account, err := s.env.seedUser("alice", 10)
	s.Require().NoError(err)

	_, err = s.env.ledger.Adjust(s.ctx, dto.AdjustParams{
		AccountID: account.AccountID,
		Amount:    -20,
		Kind:      domain.EntryHold,
		ActorID:   "alice",
	})
	s.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)

	// Balance untouched and no entry appended.
	updated, err := s.env.ledger.GetAccountByUserID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(10), updated.Balance)

	entries, err := s.env.ledger.ListEntries(s.ctx, account.AccountID, 10, 0)
	s.Require().NoError(err)
	s.Len(entries, 1) // only the seed bonus
}

func (s *LedgerServiceTestSuite) TestAdjust_RejectsZeroAmount() {
	account, err := s.env.seedUser("alice", 10)
	s.Require().NoError(err)

	_, err = s.env.ledger.Adjust(s.ctx, dto.AdjustParams{
		AccountID: account.AccountID,
		Amount:    0,
		Kind:      domain.EntryAdjustment,
	})
	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestAdjust_UnknownAccount() {
	_, err := s.env.ledger.Adjust(s.ctx, dto.AdjustParams{
		AccountID: "missing",
		Amount:    5,
		Kind:      domain.EntryAdjustment,
	})
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestTopUp_CreditsAndPublishes() {
	_, err := s.env.seedUser("alice", 0)
	s.Require().NoError(err)

	entry, err := s.env.ledger.TopUp(s.ctx, "alice", 250, "order-42")
	s.Require().NoError(err)
	s.Equal(domain.EntryPurchase, entry.Kind)
	s.Equal(int64(250), entry.BalanceAfter)

	s.env.publisher.AssertCalled(s.T(), "Publish", mock.Anything, portssvc.TopicLedgerAdjusted, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestTopUp_RejectsNonPositive() {
	_, err := s.env.seedUser("alice", 0)
	s.Require().NoError(err)

	_, err = s.env.ledger.TopUp(s.ctx, "alice", 0, "order-42")
	s.Require().ErrorIs(err, apperrors.ErrValidation)

	_, err = s.env.ledger.TopUp(s.ctx, "alice", -5, "order-42")
	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestListEntries_NewestFirst() {
	account, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	_, err = s.env.ledger.Adjust(s.ctx, dto.AdjustParams{AccountID: account.AccountID, Amount: -30, Kind: domain.EntryHold, ActorID: "alice"})
	s.Require().NoError(err)
	_, err = s.env.ledger.Adjust(s.ctx, dto.AdjustParams{AccountID: account.AccountID, Amount: 30, Kind: domain.EntryRefund, ActorID: "alice"})
	s.Require().NoError(err)

	entries, err := s.env.ledger.ListEntries(s.ctx, account.AccountID, 2, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(domain.EntryRefund, entries[0].Kind)
	s.Equal(domain.EntryHold, entries[1].Kind)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
