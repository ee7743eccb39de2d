package risk

import (
	"fmt"
	"math"
)

// Sizer thresholds.
const (
	MaxStopDistancePercent      = 10.0
	MaxCapitalDeploymentPercent = 40.0
)

// Severity tells whether an issue blocks the position or only advises.
type Severity string

const (
	SeverityAdvisory Severity = "advisory"
	SeverityBlocking Severity = "blocking"
)

// Issue is a warning tagged with a stable code and severity.
type Issue struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Msg      string   `json:"msg"`
}

// PositionSizeInput describes a proposed trade. Leverage below 1 is treated as 1.
// TargetPrice is optional; zero means no target.
type PositionSizeInput struct {
	AccountBalance float64 `json:"account_balance"`
	RiskPercent    float64 `json:"risk_percent"`
	EntryPrice     float64 `json:"entry_price"`
	StopLossPrice  float64 `json:"stop_loss_price"`
	TargetPrice    float64 `json:"target_price,omitempty"`
	Leverage       float64 `json:"leverage"`
}

type PositionSizeResult struct {
	PositionSize             float64 `json:"position_size"`
	PositionValue            float64 `json:"position_value"`
	RiskAmount               float64 `json:"risk_amount"`
	CapitalDeploymentPercent float64 `json:"capital_deployment_percent"`
	StopDistance             float64 `json:"stop_distance"`
	StopDistancePercent      float64 `json:"stop_distance_percent"`

	PotentialLoss     float64 `json:"potential_loss"`
	PotentialProfit1R float64 `json:"potential_profit_1r"`
	PotentialProfit2R float64 `json:"potential_profit_2r"`
	PotentialProfit3R float64 `json:"potential_profit_3r"`

	// RewardRiskRatio is zero when no target was given.
	RewardRiskRatio float64 `json:"reward_risk_ratio"`

	IsValid  bool     `json:"is_valid"`
	Warnings []string `json:"warnings"`
	Issues   []Issue  `json:"issues"`
}

func (r *PositionSizeResult) add(code string, sev Severity, msg string) {
	r.Warnings = append(r.Warnings, msg)
	r.Issues = append(r.Issues, Issue{Code: code, Severity: sev, Msg: msg})
	if sev == SeverityBlocking {
		r.IsValid = false
	}
}

// RR returns reward over risk for a trade, 0 when the stop distance is zero.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	if risk == 0 {
		return 0
	}
	return math.Abs(takeProfit-entry) / risk
}

// ComputePositionSize turns balance, risk and stop placement into a position
// size. It never fails: bad inputs come back as IsValid=false with warnings.
func ComputePositionSize(in PositionSizeInput) PositionSizeResult {
	leverage := in.Leverage
	if leverage < 1 {
		leverage = 1
	}

	r := PositionSizeResult{IsValid: true}

	r.StopDistance = math.Abs(in.EntryPrice - in.StopLossPrice)
	if in.EntryPrice > 0 {
		r.StopDistancePercent = r.StopDistance / in.EntryPrice * 100
	}

	r.RiskAmount = in.AccountBalance * in.RiskPercent / 100
	if r.StopDistance > 0 {
		r.PositionSize = r.RiskAmount / r.StopDistance
	}

	r.PositionValue = r.PositionSize * in.EntryPrice
	if capital := in.AccountBalance * leverage; capital > 0 {
		r.CapitalDeploymentPercent = r.PositionValue / capital * 100
	}

	r.PotentialLoss = r.RiskAmount
	r.PotentialProfit1R = r.RiskAmount
	r.PotentialProfit2R = r.RiskAmount * 2
	r.PotentialProfit3R = r.RiskAmount * 3

	if in.TargetPrice > 0 {
		r.RewardRiskRatio = RR(in.EntryPrice, in.StopLossPrice, in.TargetPrice)
	}

	if r.StopDistancePercent > MaxStopDistancePercent {
		r.add("STOP_TOO_FAR", SeverityAdvisory,
			fmt.Sprintf("Stop loss is very far from entry (%.2f%%); consider a tighter stop", r.StopDistancePercent))
	}
	if r.CapitalDeploymentPercent > MaxCapitalDeploymentPercent {
		r.add("DEPLOYMENT_TOO_HIGH", SeverityBlocking,
			fmt.Sprintf("Capital deployment %.2f%% exceeds the %.0f%% maximum", r.CapitalDeploymentPercent, MaxCapitalDeploymentPercent))
	}
	if r.PositionSize <= 0 {
		r.add("INVALID_POSITION_SIZE", SeverityBlocking,
			"Invalid position size: stop loss must differ from entry price")
	}
	if r.RiskAmount <= 0 {
		r.add("INVALID_RISK_AMOUNT", SeverityBlocking,
			"Risk amount must be greater than zero")
	}

	return r
}
