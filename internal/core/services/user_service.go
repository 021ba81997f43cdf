package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vuthy55/roomledger/internal/apperrors"
	"github.com/vuthy55/roomledger/internal/core/domain"
	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
	"github.com/vuthy55/roomledger/internal/dto"
	"github.com/vuthy55/roomledger/internal/utils"
)

// ErrInvalidCredentials is deliberately vague: it covers both unknown email
// and wrong password so login responses don't leak which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// userService owns identity records and ties registration to account
// provisioning.
type userService struct {
	BaseService
	transactor portsrepo.Transactor
	userRepo   portsrepo.UserRepository
	ledgerSvc  portssvc.LedgerSvcFacade
	rates      portssvc.RatePolicyProvider
}

// NewUserService creates a new UserService.
func NewUserService(transactor portsrepo.Transactor, userRepo portsrepo.UserRepository, ledgerSvc portssvc.LedgerSvcFacade, rates portssvc.RatePolicyProvider) portssvc.UserSvcFacade {
	return &userService{
		transactor: transactor,
		userRepo:   userRepo,
		ledgerSvc:  ledgerSvc,
		rates:      rates,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// Register creates the user and their token account in one transaction, so a
// user never exists without an account to hold against.
func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicate, email)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	policy, err := s.rates.GetRates(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     systemActor,
			LastUpdatedAt: now,
			LastUpdatedBy: systemActor,
		},
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.SaveUser(ctx, user); err != nil {
			return err
		}
		_, err := s.ledgerSvc.CreateAccount(ctx, user.UserID, policy.SignupBonusTokens)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to register user", slog.String("email", email))
		return nil, err
	}

	s.LogInfo(ctx, "User registered",
		slog.String("user_id", user.UserID),
		slog.Int64("signup_bonus", policy.SignupBonusTokens))
	return &user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}
