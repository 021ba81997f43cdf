package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RatePolicy is the externally configured pricing for metered rooms.
// It is a pure value object fetched per operation; reconciliation reads the
// policy at settlement time, not at room creation.
type RatePolicy struct {
	RatePerPersonPerMinute int64           `json:"ratePerPersonPerMinute"` // tokens
	FreeMinutes            int             `json:"freeMinutes"`            // unbilled leading minutes
	ReminderMinutes        int             `json:"reminderMinutes"`        // pre-start reminder offset
	TranscriptCost         int64           `json:"transcriptCost"`         // tokens per transcript request
	SignupBonusTokens      int64           `json:"signupBonusTokens"`      // credited on registration
	TokenUnitPrice         decimal.Decimal `json:"tokenUnitPrice"`         // monetary value of one token
}

// DefaultRatePolicy returns the policy used when a setting is absent.
func DefaultRatePolicy() RatePolicy {
	return RatePolicy{
		RatePerPersonPerMinute: 1,
		FreeMinutes:            0,
		ReminderMinutes:        15,
		TranscriptCost:         5,
		SignupBonusTokens:      100,
		TokenUnitPrice:         decimal.NewFromFloat(0.01),
	}
}

// Validate checks the policy for values the engine cannot price with.
func (p RatePolicy) Validate() error {
	if p.RatePerPersonPerMinute < 0 {
		return fmt.Errorf("ratePerPersonPerMinute must be non-negative, got %d", p.RatePerPersonPerMinute)
	}
	if p.FreeMinutes < 0 {
		return fmt.Errorf("freeMinutes must be non-negative, got %d", p.FreeMinutes)
	}
	if p.TranscriptCost < 0 {
		return fmt.Errorf("transcriptCost must be non-negative, got %d", p.TranscriptCost)
	}
	if p.SignupBonusTokens < 0 {
		return fmt.Errorf("signupBonusTokens must be non-negative, got %d", p.SignupBonusTokens)
	}
	if p.TokenUnitPrice.IsNegative() {
		return fmt.Errorf("tokenUnitPrice must be non-negative, got %s", p.TokenUnitPrice)
	}
	return nil
}
