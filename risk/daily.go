package risk

import (
	"math"
	"time"
)

// DateLayout is the calendar-day key format for snapshots and events.
const DateLayout = "2006-01-02"

// Level is the daily loss state of an account. Levels are ordered.
type Level int

const (
	LevelOpen Level = iota
	LevelWarning70
	LevelWarning90
	LevelDisabled
)

func (l Level) String() string {
	switch l {
	case LevelOpen:
		return "open"
	case LevelWarning70:
		return "warning_70"
	case LevelWarning90:
		return "warning_90"
	case LevelDisabled:
		return "disabled"
	}
	return "unknown"
}

// LevelFor maps loss-limit usage (percent) to a Level.
func LevelFor(used float64) Level {
	switch {
	case used >= 100:
		return LevelDisabled
	case used >= 90:
		return LevelWarning90
	case used >= 70:
		return LevelWarning70
	default:
		return LevelOpen
	}
}

// ThresholdFor returns the usage percent at which a level starts.
func ThresholdFor(l Level) float64 {
	switch l {
	case LevelWarning70:
		return 70
	case LevelWarning90:
		return 90
	case LevelDisabled:
		return 100
	}
	return 0
}

// LossLimitUsedPercent is |min(pnl,0)| as a percent of the day's loss budget.
// A loss against a zero budget counts as fully used.
func LossLimitUsedPercent(currentPnl, startingBalance, maxDailyLossPercent float64) float64 {
	loss := math.Abs(math.Min(currentPnl, 0))
	if loss == 0 {
		return 0
	}
	limit := startingBalance * maxDailyLossPercent / 100
	if limit <= 0 {
		return 100
	}
	return loss / limit * 100
}

// DailySnapshot is the per-user, per-day risk record. Version increases on
// every successful write and is used for optimistic concurrency.
type DailySnapshot struct {
	UserID                 string  `json:"user_id"`
	SnapshotDate           string  `json:"snapshot_date"`
	StartingBalance        float64 `json:"starting_balance"`
	CurrentPnl             float64 `json:"current_pnl"`
	LossLimitUsedPercent   float64 `json:"loss_limit_used_percent"`
	PositionsOpen          int     `json:"positions_open"`
	CapitalDeployedPercent float64 `json:"capital_deployed_percent"`
	TradingAllowed         bool    `json:"trading_allowed"`
	Sealed                 bool    `json:"sealed"`
	Version                int64   `json:"version"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewDailySnapshot opens a fresh day.
func NewDailySnapshot(userID string, day time.Time, startingBalance float64) DailySnapshot {
	return DailySnapshot{
		UserID:          userID,
		SnapshotDate:    day.Format(DateLayout),
		StartingBalance: startingBalance,
		TradingAllowed:  true,
	}
}

// Level returns the snapshot's current loss level.
func (s DailySnapshot) Level() Level {
	return LevelFor(s.LossLimitUsedPercent)
}

// EndingBalance is the balance carried into the next day.
func (s DailySnapshot) EndingBalance() float64 {
	return s.StartingBalance + s.CurrentPnl
}

// DailyLoss is the day's realized loss as a non-positive number.
func (s DailySnapshot) DailyLoss() float64 {
	return math.Min(s.CurrentPnl, 0)
}

// Recompute derives usage and the trading flag from CurrentPnl.
func (s *DailySnapshot) Recompute(maxDailyLossPercent float64) {
	s.LossLimitUsedPercent = LossLimitUsedPercent(s.CurrentPnl, s.StartingBalance, maxDailyLossPercent)
	s.TradingAllowed = s.LossLimitUsedPercent < 100
}

// CrossedEvents lists the events produced by moving from prev to next.
// Upward moves emit one event per threshold crossed; leaving Disabled emits
// trading_enabled.
func CrossedEvents(prev, next Level) []EventType {
	var out []EventType
	if next > prev {
		for l := prev + 1; l <= next; l++ {
			switch l {
			case LevelWarning70:
				out = append(out, EventWarning70)
			case LevelWarning90:
				out = append(out, EventWarning90)
			case LevelDisabled:
				out = append(out, EventLimitReached, EventTradingDisabled)
			}
		}
	}
	if prev == LevelDisabled && next < LevelDisabled {
		out = append(out, EventTradingEnabled)
	}
	return out
}
