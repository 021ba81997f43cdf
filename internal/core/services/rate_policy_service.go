package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"github.com/vuthy55/roomledger/internal/apperrors"
	"github.com/vuthy55/roomledger/internal/core/domain"
	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
)

// Setting keys recognized by the rate policy loader. Unknown keys in the
// settings table are ignored so operators can stage new settings ahead of a
// deploy.
const (
	settingRatePerPersonPerMinute = "rate_per_person_per_minute"
	settingFreeMinutes            = "free_minutes"
	settingReminderMinutes        = "reminder_minutes"
	settingTranscriptCost         = "transcript_cost"
	settingSignupBonusTokens      = "signup_bonus_tokens"
	settingTokenUnitPrice         = "token_unit_price"
)

const ratePolicyCacheKey = "roomledger:rate_policy"

// ratePolicyService materializes the loosely-typed settings rows into a
// validated RatePolicy, with a short-lived Redis cache in front. Redis being
// absent or down degrades to reading the store every time.
type ratePolicyService struct {
	BaseService
	settingsRepo portsrepo.SettingsRepository
	cache        *redis.Client // nil when Redis is not configured
	cacheTTL     time.Duration
}

// NewRatePolicyService creates a new rate policy provider. cache may be nil.
func NewRatePolicyService(settingsRepo portsrepo.SettingsRepository, cache *redis.Client, cacheTTL time.Duration) portssvc.RatePolicyProvider {
	return &ratePolicyService{
		settingsRepo: settingsRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

var _ portssvc.RatePolicyProvider = (*ratePolicyService)(nil)

func (s *ratePolicyService) GetRates(ctx context.Context) (domain.RatePolicy, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, ratePolicyCacheKey).Result(); err == nil {
			var policy domain.RatePolicy
			if err := json.Unmarshal([]byte(raw), &policy); err == nil {
				return policy, nil
			}
			s.LogWarn(ctx, "Discarding unreadable cached rate policy")
		}
	}

	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return domain.RatePolicy{}, fmt.Errorf("failed to load settings: %w", err)
	}

	policy, err := policyFromSettings(settings)
	if err != nil {
		return domain.RatePolicy{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(policy); err == nil {
			if err := s.cache.Set(ctx, ratePolicyCacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.LogWarn(ctx, "Failed to cache rate policy", slog.String("error", err.Error()))
			}
		}
	}
	return policy, nil
}

// policyFromSettings overlays stored settings on the defaults and validates
// the result. A malformed value fails loudly rather than silently falling
// back, because a mispriced policy is worse than a failed request.
func policyFromSettings(settings map[string]string) (domain.RatePolicy, error) {
	policy := domain.DefaultRatePolicy()

	if raw, ok := settings[settingRatePerPersonPerMinute]; ok {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.RatePolicy{}, fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, settingRatePerPersonPerMinute, err)
		}
		policy.RatePerPersonPerMinute = v
	}
	if raw, ok := settings[settingFreeMinutes]; ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return domain.RatePolicy{}, fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, settingFreeMinutes, err)
		}
		policy.FreeMinutes = v
	}
	if raw, ok := settings[settingReminderMinutes]; ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return domain.RatePolicy{}, fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, settingReminderMinutes, err)
		}
		policy.ReminderMinutes = v
	}
	if raw, ok := settings[settingTranscriptCost]; ok {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.RatePolicy{}, fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, settingTranscriptCost, err)
		}
		policy.TranscriptCost = v
	}
	if raw, ok := settings[settingSignupBonusTokens]; ok {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.RatePolicy{}, fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, settingSignupBonusTokens, err)
		}
		policy.SignupBonusTokens = v
	}
	if raw, ok := settings[settingTokenUnitPrice]; ok {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.RatePolicy{}, fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, settingTokenUnitPrice, err)
		}
		policy.TokenUnitPrice = v
	}

	if err := policy.Validate(); err != nil {
		return domain.RatePolicy{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return policy, nil
}
