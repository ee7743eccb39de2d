package risk

import (
	"fmt"
	"time"
)

// RiskProfile holds one user's risk limits. Percentages are expressed as
// whole percents (2.0 means 2%), MaxCorrelatedExposure is a fraction 0-1.
type RiskProfile struct {
	ID     int64  `json:"id" yaml:"-"`
	UserID string `json:"user_id" yaml:"-"`

	RiskPerTradePercent      float64 `json:"risk_per_trade_percent" yaml:"risk_per_trade_percent"`
	MaxDailyLossPercent      float64 `json:"max_daily_loss_percent" yaml:"max_daily_loss_percent"`
	MaxWeeklyDrawdownPercent float64 `json:"max_weekly_drawdown_percent" yaml:"max_weekly_drawdown_percent"`
	MaxPositionSizePercent   float64 `json:"max_position_size_percent" yaml:"max_position_size_percent"`
	MaxCorrelatedExposure    float64 `json:"max_correlated_exposure" yaml:"max_correlated_exposure"`
	MaxConcurrentPositions   int     `json:"max_concurrent_positions" yaml:"max_concurrent_positions"`

	IsActive  bool      `json:"is_active" yaml:"-"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Onboarding defaults.
const (
	DefaultRiskPerTradePercent      = 2.0
	DefaultMaxDailyLossPercent      = 5.0
	DefaultMaxWeeklyDrawdownPercent = 10.0
	DefaultMaxPositionSizePercent   = 40.0
	DefaultMaxCorrelatedExposure    = 0.75
	DefaultMaxConcurrentPositions   = 3
)

// DefaultProfile returns the profile a user gets on onboarding.
func DefaultProfile(userID string) RiskProfile {
	return RiskProfile{
		UserID:                   userID,
		RiskPerTradePercent:      DefaultRiskPerTradePercent,
		MaxDailyLossPercent:      DefaultMaxDailyLossPercent,
		MaxWeeklyDrawdownPercent: DefaultMaxWeeklyDrawdownPercent,
		MaxPositionSizePercent:   DefaultMaxPositionSizePercent,
		MaxCorrelatedExposure:    DefaultMaxCorrelatedExposure,
		MaxConcurrentPositions:   DefaultMaxConcurrentPositions,
		IsActive:                 true,
	}
}

// Validate checks the profile's field ranges.
func (p RiskProfile) Validate() error {
	if p.RiskPerTradePercent < 0 {
		return fmt.Errorf("risk_per_trade_percent must be non-negative, got %.2f", p.RiskPerTradePercent)
	}
	if p.MaxDailyLossPercent < 0 {
		return fmt.Errorf("max_daily_loss_percent must be non-negative, got %.2f", p.MaxDailyLossPercent)
	}
	if p.MaxWeeklyDrawdownPercent < 0 {
		return fmt.Errorf("max_weekly_drawdown_percent must be non-negative, got %.2f", p.MaxWeeklyDrawdownPercent)
	}
	if p.MaxPositionSizePercent < 0 {
		return fmt.Errorf("max_position_size_percent must be non-negative, got %.2f", p.MaxPositionSizePercent)
	}
	if p.MaxCorrelatedExposure < 0 || p.MaxCorrelatedExposure > 1 {
		return fmt.Errorf("max_correlated_exposure must be between 0 and 1, got %.2f", p.MaxCorrelatedExposure)
	}
	if p.MaxConcurrentPositions < 0 {
		return fmt.Errorf("max_concurrent_positions must be non-negative, got %d", p.MaxConcurrentPositions)
	}
	return nil
}

// DailyLossLimit is the dollar loss budget for a day that started at startingBalance.
func (p RiskProfile) DailyLossLimit(startingBalance float64) float64 {
	return startingBalance * p.MaxDailyLossPercent / 100
}
