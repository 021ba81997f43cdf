package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/vuthy55/roomledger/internal/apperrors"
	"github.com/vuthy55/roomledger/internal/core/domain"
	"github.com/vuthy55/roomledger/internal/core/services"
	"github.com/vuthy55/roomledger/internal/dto"
)

type UserServiceTestSuite struct {
	suite.Suite
	env *testEnv
	ctx context.Context
}

func (s *UserServiceTestSuite) SetupTest() {
	s.env = newTestEnv()
	s.ctx = context.Background()
}

func (s *UserServiceTestSuite) TestRegister_CreatesAccountWithSignupBonus() {
	user, err := s.env.users.Register(s.ctx, dto.RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	})
	s.Require().NoError(err)
	s.Equal("alice@example.com", user.Email)
	s.NotEmpty(user.UserID)
	s.NotEqual("correct-horse", user.PasswordHash)

	account, err := s.env.ledger.GetAccountByUserID(s.ctx, user.UserID)
	s.Require().NoError(err)
	s.Equal(int64(100), account.Balance) // default signup bonus

	entries, err := s.env.ledger.ListEntries(s.ctx, account.AccountID, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(domain.EntryBonus, entries[0].Kind)
}

func (s *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	_, err := s.env.users.Register(s.ctx, dto.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	s.Require().NoError(err)

	_, err = s.env.users.Register(s.ctx, dto.RegisterRequest{
		Name:     "Imposter",
		Email:    "ALICE@example.com",
		Password: "battery-staple",
	})
	s.Require().ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *UserServiceTestSuite) TestRegister_HonorsConfiguredBonus() {
	s.env.store.SetSetting("signup_bonus_tokens", "25")

	user, err := s.env.users.Register(s.ctx, dto.RegisterRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "correct-horse",
	})
	s.Require().NoError(err)

	account, err := s.env.ledger.GetAccountByUserID(s.ctx, user.UserID)
	s.Require().NoError(err)
	s.Equal(int64(25), account.Balance)
}

func (s *UserServiceTestSuite) TestAuthenticate() {
	user, err := s.env.users.Register(s.ctx, dto.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	s.Require().NoError(err)

	got, err := s.env.users.Authenticate(s.ctx, "alice@example.com", "correct-horse")
	s.Require().NoError(err)
	s.Equal(user.UserID, got.UserID)

	_, err = s.env.users.Authenticate(s.ctx, "alice@example.com", "wrong")
	s.Require().ErrorIs(err, services.ErrInvalidCredentials)

	_, err = s.env.users.Authenticate(s.ctx, "nobody@example.com", "correct-horse")
	s.Require().ErrorIs(err, services.ErrInvalidCredentials)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
