package risk

import (
	"fmt"
	"math"
)

// Factor names the signal that set the final multiplier.
type Factor string

const (
	FactorCalendar   Factor = "calendar"
	FactorRegime     Factor = "regime"
	FactorVolatility Factor = "volatility"
)

// RiskInputs are three independently computed size multipliers, 1.0 meaning
// no reduction.
type RiskInputs struct {
	CalendarMultiplier   float64 `json:"calendar_multiplier"`
	RegimeMultiplier     float64 `json:"regime_multiplier"`
	VolatilityMultiplier float64 `json:"volatility_multiplier"`
}

type UnifiedRiskOutput struct {
	FinalMultiplier  float64 `json:"final_multiplier"`
	FinalSizePercent int     `json:"final_size_percent"`
	DominantFactor   Factor  `json:"dominant_factor"`
	FinalSizeLabel   string  `json:"final_size_label"`
}

// CalculateUnifiedPositionSize combines the signals with most-conservative-wins.
// Signals are never averaged. On ties calendar beats volatility, and regime is
// the fallback attribution.
func CalculateUnifiedPositionSize(in RiskInputs) UnifiedRiskOutput {
	final := math.Min(in.CalendarMultiplier, math.Min(in.RegimeMultiplier, in.VolatilityMultiplier))

	dominant := FactorRegime
	if final == in.CalendarMultiplier {
		dominant = FactorCalendar
	} else if final == in.VolatilityMultiplier {
		dominant = FactorVolatility
	}

	pct := int(math.Round(final * 100))
	return UnifiedRiskOutput{
		FinalMultiplier:  final,
		FinalSizePercent: pct,
		DominantFactor:   dominant,
		FinalSizeLabel:   SizeLabel(pct),
	}
}

// SizeLabel renders a final size percent for display.
func SizeLabel(pct int) string {
	if pct >= 100 {
		return "Normal (100%)"
	}
	reduce := 100 - pct
	if pct <= 50 {
		return fmt.Sprintf("Reduce %d%% (high risk)", reduce)
	}
	return fmt.Sprintf("Reduce %d%%", reduce)
}

// Volatility regime breakpoints, annualized percent.
const (
	ExtremeVolatilityPct = 120.0
	HighVolatilityPct    = 80.0
)

// DeriveVolatilityMultiplier maps annualized realized volatility to a size
// multiplier. It is a step function; the breakpoints are exclusive.
func DeriveVolatilityMultiplier(annualizedVolPct float64) float64 {
	switch {
	case annualizedVolPct > ExtremeVolatilityPct:
		return 0.5
	case annualizedVolPct > HighVolatilityPct:
		return 0.7
	default:
		return 1.0
	}
}
