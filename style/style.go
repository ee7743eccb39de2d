// Package style holds the per-trading-style weighting table used by market
// scoring and by callers of the risk orchestrator when deciding which signal
// providers to query.
package style

import (
	"fmt"
	"strings"
)

type Style string

const (
	Scalping   Style = "scalping"
	ShortTrade Style = "short_trade"
	Swing      Style = "swing"
)

// All lists every style in table order.
var All = []Style{Scalping, ShortTrade, Swing}

// CompositeWeights weigh the market composite score inputs.
type CompositeWeights struct {
	Technical float64 `json:"technical" yaml:"technical"`
	OnChain   float64 `json:"on_chain" yaml:"on_chain"`
	Macro     float64 `json:"macro" yaml:"macro"`
	FearGreed float64 `json:"fear_greed" yaml:"fear_greed"`
}

func (w CompositeWeights) Sum() float64 {
	return w.Technical + w.OnChain + w.Macro + w.FearGreed
}

// OrchestratorWeights weigh the three risk signals.
type OrchestratorWeights struct {
	Calendar   float64 `json:"calendar" yaml:"calendar"`
	Regime     float64 `json:"regime" yaml:"regime"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
}

func (w OrchestratorWeights) Sum() float64 {
	return w.Calendar + w.Regime + w.Volatility
}

type Profile struct {
	Style            Style               `json:"style" yaml:"style"`
	Composite        CompositeWeights    `json:"composite" yaml:"composite"`
	Orchestrator     OrchestratorWeights `json:"orchestrator" yaml:"orchestrator"`
	RangeHorizon     string              `json:"range_horizon" yaml:"range_horizon"`
	EventWindowHours int                 `json:"event_window_hours" yaml:"event_window_hours"`
}

// For returns the weight profile of s.
func For(s Style) (Profile, error) {
	switch s {
	case Scalping:
		return Profile{
			Style:            Scalping,
			Composite:        CompositeWeights{Technical: 0.50, OnChain: 0.10, Macro: 0.15, FearGreed: 0.25},
			Orchestrator:     OrchestratorWeights{Calendar: 0.50, Regime: 0.20, Volatility: 0.30},
			RangeHorizon:     "intraday",
			EventWindowHours: 2,
		}, nil
	case ShortTrade:
		return Profile{
			Style:            ShortTrade,
			Composite:        CompositeWeights{Technical: 0.40, OnChain: 0.20, Macro: 0.20, FearGreed: 0.20},
			Orchestrator:     OrchestratorWeights{Calendar: 0.35, Regime: 0.35, Volatility: 0.30},
			RangeHorizon:     "1-3 days",
			EventWindowHours: 12,
		}, nil
	case Swing:
		return Profile{
			Style:            Swing,
			Composite:        CompositeWeights{Technical: 0.30, OnChain: 0.25, Macro: 0.30, FearGreed: 0.15},
			Orchestrator:     OrchestratorWeights{Calendar: 0.20, Regime: 0.50, Volatility: 0.30},
			RangeHorizon:     "1-4 weeks",
			EventWindowHours: 48,
		}, nil
	}
	return Profile{}, fmt.Errorf("unknown trading style %q", s)
}

// Parse accepts a style name, case-insensitively. "short" and "short-trade"
// are accepted for short_trade.
func Parse(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "scalping", "scalp":
		return Scalping, nil
	case "short_trade", "short-trade", "short":
		return ShortTrade, nil
	case "swing":
		return Swing, nil
	}
	return "", fmt.Errorf("unknown trading style %q", name)
}

// WithinEventWindow reports whether an event hoursAway in the future falls
// inside the style's sensitivity window.
func (p Profile) WithinEventWindow(hoursAway float64) bool {
	return hoursAway >= 0 && hoursAway <= float64(p.EventWindowHours)
}
