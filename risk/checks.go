package risk

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Violation codes reported by ValidateRiskLimits.
const (
	CodePositionSize   = "POSITION_SIZE_LIMIT"
	CodeConcurrency    = "MAX_CONCURRENT_POSITIONS"
	CodeDailyLossLimit = "DAILY_LOSS_LIMIT"
)

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Verdict is the outcome of ValidateRiskLimits. Warnings mirrors the
// Violations messages in the same order.
type Verdict struct {
	CanTrade   bool        `json:"can_trade"`
	Warnings   []string    `json:"warnings"`
	Violations []Violation `json:"violations"`
}

// Add records a blocking violation.
func (v *Verdict) Add(code, msg string) {
	v.Violations = append(v.Violations, Violation{Code: code, Msg: msg})
	v.Warnings = append(v.Warnings, msg)
	v.CanTrade = false
}

// Has reports whether a violation with the given code was recorded.
func (v Verdict) Has(code string) bool {
	for _, vi := range v.Violations {
		if vi.Code == code {
			return true
		}
	}
	return false
}

// Money formats a dollar amount as "$1234.56", or "-$1234.56" for a loss.
func Money(x float64) string {
	d := decimal.NewFromFloat(x).Round(2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// ValidateRiskLimits checks a sized position against the profile and the
// live account state. Every check runs; all failures are reported.
func ValidateRiskLimits(
	pos PositionSizeResult,
	p RiskProfile,
	currentOpenPositions int,
	currentDailyLoss float64,
	startingBalance float64,
) Verdict {
	v := Verdict{CanTrade: true}

	if pos.CapitalDeploymentPercent > p.MaxPositionSizePercent {
		v.Add(CodePositionSize,
			fmt.Sprintf("Position size %.2f%% exceeds max %.2f%% of capital",
				pos.CapitalDeploymentPercent, p.MaxPositionSizePercent))
	}

	if currentOpenPositions >= p.MaxConcurrentPositions {
		v.Add(CodeConcurrency,
			fmt.Sprintf("Open positions %d reached max %d concurrent positions",
				currentOpenPositions, p.MaxConcurrentPositions))
	}

	dailyLossLimit := p.DailyLossLimit(startingBalance)
	used := math.Abs(currentDailyLoss)
	projected := used + pos.RiskAmount
	if projected > dailyLossLimit {
		v.Add(CodeDailyLossLimit,
			fmt.Sprintf("Trade would exceed daily loss limit; remaining budget %s",
				Money(math.Max(dailyLossLimit-used, 0))))
	}

	return v
}
