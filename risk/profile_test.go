package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	t.Parallel()

	p := DefaultProfile("u1")
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, 2.0, p.RiskPerTradePercent)
	assert.Equal(t, 5.0, p.MaxDailyLossPercent)
	assert.Equal(t, 10.0, p.MaxWeeklyDrawdownPercent)
	assert.Equal(t, 40.0, p.MaxPositionSizePercent)
	assert.Equal(t, 0.75, p.MaxCorrelatedExposure)
	assert.Equal(t, 3, p.MaxConcurrentPositions)
	assert.True(t, p.IsActive)
	require.NoError(t, p.Validate())
}

func TestProfileValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*RiskProfile)
		wantErr string
	}{
		{"zero limits ok", func(p *RiskProfile) { *p = RiskProfile{} }, ""},
		{"negative risk", func(p *RiskProfile) { p.RiskPerTradePercent = -1 }, "risk_per_trade_percent"},
		{"negative daily", func(p *RiskProfile) { p.MaxDailyLossPercent = -0.5 }, "max_daily_loss_percent"},
		{"negative weekly", func(p *RiskProfile) { p.MaxWeeklyDrawdownPercent = -2 }, "max_weekly_drawdown_percent"},
		{"negative size", func(p *RiskProfile) { p.MaxPositionSizePercent = -10 }, "max_position_size_percent"},
		{"correlation above one", func(p *RiskProfile) { p.MaxCorrelatedExposure = 1.2 }, "max_correlated_exposure"},
		{"correlation below zero", func(p *RiskProfile) { p.MaxCorrelatedExposure = -0.1 }, "max_correlated_exposure"},
		{"correlation exactly one", func(p *RiskProfile) { p.MaxCorrelatedExposure = 1 }, ""},
		{"negative concurrency", func(p *RiskProfile) { p.MaxConcurrentPositions = -1 }, "max_concurrent_positions"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultProfile("u1")
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDailyLossLimit(t *testing.T) {
	t.Parallel()

	p := DefaultProfile("u1")
	assert.InDelta(t, 500.0, p.DailyLossLimit(10000), 1e-9)
	assert.InDelta(t, 0.0, p.DailyLossLimit(0), 1e-9)

	p.MaxDailyLossPercent = 0
	assert.InDelta(t, 0.0, p.DailyLossLimit(10000), 1e-9)
}
