package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRiskLimits_AllPass(t *testing.T) {
	t.Parallel()

	pos := PositionSizeResult{CapitalDeploymentPercent: 10, RiskAmount: 100}
	v := ValidateRiskLimits(pos, DefaultProfile("u1"), 1, -50, 10000)

	assert.True(t, v.CanTrade)
	assert.Empty(t, v.Warnings)
	assert.Empty(t, v.Violations)
}

func TestValidateRiskLimits_ConcurrencyOnly(t *testing.T) {
	t.Parallel()

	pos := PositionSizeResult{CapitalDeploymentPercent: 5, RiskAmount: 10}
	v := ValidateRiskLimits(pos, DefaultProfile("u1"), 3, 0, 10000)

	assert.False(t, v.CanTrade)
	require.Len(t, v.Violations, 1)
	assert.Equal(t, CodeConcurrency, v.Violations[0].Code)
	assert.True(t, v.Has(CodeConcurrency))
	assert.False(t, v.Has(CodePositionSize))
}

func TestValidateRiskLimits_DailyBudgetRemaining(t *testing.T) {
	t.Parallel()

	p := DefaultProfile("u1")
	p.MaxDailyLossPercent = 5
	pos := PositionSizeResult{CapitalDeploymentPercent: 5, RiskAmount: 50}

	v := ValidateRiskLimits(pos, p, 0, -480, 10000)

	assert.False(t, v.CanTrade)
	require.Len(t, v.Violations, 1)
	assert.Equal(t, CodeDailyLossLimit, v.Violations[0].Code)
	assert.Contains(t, v.Warnings[0], "$20.00")
}

func TestValidateRiskLimits_BudgetAlreadySpent(t *testing.T) {
	t.Parallel()

	pos := PositionSizeResult{CapitalDeploymentPercent: 5, RiskAmount: 50}
	v := ValidateRiskLimits(pos, DefaultProfile("u1"), 0, -505.5, 10000)

	assert.False(t, v.CanTrade)
	require.Len(t, v.Warnings, 1)
	assert.Equal(t, "Trade would exceed daily loss limit; remaining budget $0.00", v.Warnings[0])
}

func TestValidateRiskLimits_ProjectedEqualToLimitPasses(t *testing.T) {
	t.Parallel()

	pos := PositionSizeResult{CapitalDeploymentPercent: 5, RiskAmount: 20}
	v := ValidateRiskLimits(pos, DefaultProfile("u1"), 0, -480, 10000)

	assert.True(t, v.CanTrade)
}

func TestValidateRiskLimits_AllViolationsReported(t *testing.T) {
	t.Parallel()

	pos := PositionSizeResult{CapitalDeploymentPercent: 80, RiskAmount: 1000}
	v := ValidateRiskLimits(pos, DefaultProfile("u1"), 5, -100, 10000)

	assert.False(t, v.CanTrade)
	require.Len(t, v.Violations, 3)
	assert.Equal(t, CodePositionSize, v.Violations[0].Code)
	assert.Equal(t, CodeConcurrency, v.Violations[1].Code)
	assert.Equal(t, CodeDailyLossLimit, v.Violations[2].Code)
	assert.Len(t, v.Warnings, 3)
}

func TestValidateRiskLimits_Conjunction(t *testing.T) {
	t.Parallel()

	p := DefaultProfile("u1")
	base := PositionSizeResult{CapitalDeploymentPercent: 10, RiskAmount: 100}

	tests := []struct {
		name     string
		pos      PositionSizeResult
		open     int
		loss     float64
		wantCode string
	}{
		{"size", PositionSizeResult{CapitalDeploymentPercent: 41, RiskAmount: 100}, 0, 0, CodePositionSize},
		{"concurrency", base, 3, 0, CodeConcurrency},
		{"loss budget", base, 0, -450, CodeDailyLossLimit},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := ValidateRiskLimits(tt.pos, p, tt.open, tt.loss, 10000)
			assert.False(t, v.CanTrade)
			require.Len(t, v.Violations, 1)
			assert.Equal(t, tt.wantCode, v.Violations[0].Code)
		})
	}
}

func TestValidateRiskLimits_ZeroConcurrencyBlocksAll(t *testing.T) {
	t.Parallel()

	p := DefaultProfile("u1")
	p.MaxConcurrentPositions = 0
	v := ValidateRiskLimits(PositionSizeResult{RiskAmount: 1}, p, 0, 0, 10000)

	assert.False(t, v.CanTrade)
	assert.True(t, v.Has(CodeConcurrency))
}

func TestMoney(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$20.00", Money(20))
	assert.Equal(t, "$0.10", Money(0.1))
	assert.Equal(t, "-$5.50", Money(-5.5))
	assert.Equal(t, "$0.00", Money(-0.001))
	assert.Equal(t, "$1234.57", Money(1234.567))
}
