package repositories

import (
	"context"

	"github.com/vuthy55/roomledger/internal/core/domain"
)

// UserRepository persists identity records.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID returns apperrors.ErrNotFound if absent.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail returns apperrors.ErrNotFound if absent.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SettingsRepository reads the externally managed configuration rows that back
// the rate policy.
type SettingsRepository interface {
	// GetSettings returns all settings as raw key/value pairs.
	GetSettings(ctx context.Context) (map[string]string, error)
}
