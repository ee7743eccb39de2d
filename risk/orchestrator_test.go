package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateUnifiedPositionSize_CalendarDominates(t *testing.T) {
	t.Parallel()

	got := CalculateUnifiedPositionSize(RiskInputs{
		CalendarMultiplier:   0.5,
		RegimeMultiplier:     1.0,
		VolatilityMultiplier: 0.7,
	})

	assert.Equal(t, 0.5, got.FinalMultiplier)
	assert.Equal(t, 50, got.FinalSizePercent)
	assert.Equal(t, FactorCalendar, got.DominantFactor)
	assert.Equal(t, "Reduce 50% (high risk)", got.FinalSizeLabel)
}

func TestCalculateUnifiedPositionSize_Attribution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   RiskInputs
		want Factor
	}{
		{"regime lowest", RiskInputs{1.0, 0.25, 0.7}, FactorRegime},
		{"volatility lowest", RiskInputs{1.0, 0.9, 0.5}, FactorVolatility},
		{"calendar ties volatility", RiskInputs{0.5, 1.0, 0.5}, FactorCalendar},
		{"calendar ties regime", RiskInputs{0.5, 0.5, 1.0}, FactorCalendar},
		{"volatility ties regime", RiskInputs{1.0, 0.7, 0.7}, FactorVolatility},
		{"all equal", RiskInputs{1.0, 1.0, 1.0}, FactorCalendar},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CalculateUnifiedPositionSize(tt.in).DominantFactor)
		})
	}
}

func TestCalculateUnifiedPositionSize_IsMinimum(t *testing.T) {
	t.Parallel()

	steps := []float64{0, 0.1, 0.25, 0.33, 0.5, 0.7, 0.85, 1.0}
	for _, c := range steps {
		for _, r := range steps {
			for _, v := range steps {
				got := CalculateUnifiedPositionSize(RiskInputs{c, r, v})
				assert.Equal(t, math.Min(c, math.Min(r, v)), got.FinalMultiplier)
			}
		}
	}
}

func TestSizeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pct  int
		want string
	}{
		{100, "Normal (100%)"},
		{120, "Normal (100%)"},
		{99, "Reduce 1%"},
		{70, "Reduce 30%"},
		{69, "Reduce 31%"},
		{51, "Reduce 49%"},
		{50, "Reduce 50% (high risk)"},
		{25, "Reduce 75% (high risk)"},
		{0, "Reduce 100% (high risk)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SizeLabel(tt.pct), "pct=%d", tt.pct)
	}
}

func TestDeriveVolatilityMultiplier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		vol  float64
		want float64
	}{
		{0, 1.0},
		{45, 1.0},
		{80, 1.0},
		{80.0001, 0.7},
		{120, 0.7},
		{120.5, 0.5},
		{300, 0.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveVolatilityMultiplier(tt.vol), "vol=%v", tt.vol)
	}
}
