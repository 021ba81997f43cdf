package services

import (
	"context"

	"github.com/vuthy55/roomledger/internal/core/domain"
	"github.com/vuthy55/roomledger/internal/dto"
)

// UserSvcFacade owns identity records. Resolution by email backs emcee
// promotion targets and refund recipients.
type UserSvcFacade interface {
	// Register creates a user and their token account (with signup bonus) in
	// one transaction.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Authenticate verifies credentials and returns the user.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
