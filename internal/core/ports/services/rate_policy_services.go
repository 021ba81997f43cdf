package services

import (
	"context"

	"github.com/vuthy55/roomledger/internal/core/domain"
)

// RatePolicyProvider is a read-only source of pricing. It may cache; callers
// fetch per operation and must not hold a policy across transactions.
type RatePolicyProvider interface {
	GetRates(ctx context.Context) (domain.RatePolicy, error)
}
