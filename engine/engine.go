// Package engine runs the pre-trade pipeline: size the position, gate on the
// day's trading flag, validate against the active profile, then scale by the
// unified risk multiplier.
package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/itsramaa/trading-journal/metrics"
	"github.com/itsramaa/trading-journal/risk"
	"github.com/itsramaa/trading-journal/tracker"
)

// Codes added by the engine on top of the validator's.
const (
	CodeTradingDisabled = "TRADING_DISABLED"
	CodeWeeklyDrawdown  = "WEEKLY_DRAWDOWN_LIMIT"
	CodeInvalidPosition = "INVALID_POSITION"
)

// TradeRequest is a proposed trade. Zero AccountBalance means the day's
// running balance; zero RiskPercent means the profile's risk per trade.
type TradeRequest struct {
	UserID     string
	Instrument string
	Position   risk.PositionSizeInput

	// Bucket groups correlated instruments; CorrelatedExposure is the share
	// of capital (0-1) already deployed in that bucket.
	Bucket             string
	CorrelatedExposure float64

	// Signals is optional. When set the final size is scaled by the most
	// conservative multiplier.
	Signals *risk.RiskInputs

	Now time.Time
}

type Assessment struct {
	Request  TradeRequest
	Profile  risk.RiskProfile
	Snapshot risk.DailySnapshot
	Week     tracker.Week
	Position risk.PositionSizeResult
	Verdict  risk.Verdict

	// Advisories do not block the trade.
	Advisories []string

	Unified              *risk.UnifiedRiskOutput
	AdjustedPositionSize float64

	Events []risk.RiskEvent

	// Opened is set by Open once the position is counted on the day.
	Opened bool
}

// Allowed reports whether the trade may be placed.
func (a Assessment) Allowed() bool {
	return a.Position.IsValid && a.Verdict.CanTrade
}

type Engine struct {
	tracker *tracker.Tracker
	log     zerolog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

func New(tr *tracker.Tracker, log zerolog.Logger, rec *metrics.Recorder) *Engine {
	return &Engine{
		tracker: tr,
		log:     log.With().Str("component", "engine").Logger(),
		metrics: rec,
		now:     time.Now,
	}
}

// Assess evaluates req. Limit breaches are reported in the Assessment;
// only storage failures return an error.
func (e *Engine) Assess(ctx context.Context, req TradeRequest) (Assessment, error) {
	if req.UserID == "" {
		return Assessment{}, fmt.Errorf("trade request: user id is required")
	}
	if req.Now.IsZero() {
		req.Now = e.now()
	}
	a := Assessment{Request: req}

	p, err := e.tracker.Profile(ctx, req.UserID)
	if err != nil {
		return Assessment{}, err
	}
	a.Profile = p

	fallback := req.Position.AccountBalance
	if fallback <= 0 {
		fallback = e.tracker.StartingBalance
	}
	snap, err := e.tracker.Today(ctx, req.UserID, req.Now, fallback)
	if err != nil {
		return Assessment{}, fmt.Errorf("load today's snapshot: %w", err)
	}
	a.Snapshot = snap

	in := req.Position
	if in.AccountBalance <= 0 {
		in.AccountBalance = snap.EndingBalance()
	}
	if in.RiskPercent <= 0 {
		in.RiskPercent = p.RiskPerTradePercent
	}
	a.Request.Position = in
	a.Position = risk.ComputePositionSize(in)
	e.metrics.Sizing(a.Position.IsValid)

	if !snap.TradingAllowed {
		a.Verdict = risk.Verdict{CanTrade: true}
		a.Verdict.Add(CodeTradingDisabled, fmt.Sprintf(
			"Trading disabled for %s: daily loss limit used %.2f%%", snap.SnapshotDate, snap.LossLimitUsedPercent))
		e.finish(&a)
		return a, nil
	}

	a.Verdict = risk.ValidateRiskLimits(a.Position, p, snap.PositionsOpen, snap.DailyLoss(), snap.StartingBalance)
	if !a.Position.IsValid {
		a.Verdict.Add(CodeInvalidPosition, "Position size is invalid")
	}

	if err := e.checkWeek(ctx, &a); err != nil {
		return Assessment{}, err
	}
	if err := e.checkCorrelation(ctx, &a); err != nil {
		return Assessment{}, err
	}
	if a.Verdict.Has(risk.CodeConcurrency) {
		ev := risk.RiskEvent{
			UserID:         req.UserID,
			Type:           risk.EventPositionLimitWarning,
			EventDate:      snap.SnapshotDate,
			TriggerValue:   float64(snap.PositionsOpen),
			ThresholdValue: float64(p.MaxConcurrentPositions),
			Message:        "Max concurrent positions reached",
			Metadata: risk.PositionLimitMeta{
				OpenPositions:          snap.PositionsOpen,
				MaxConcurrentPositions: p.MaxConcurrentPositions,
			},
		}
		if err := e.emit(ctx, &a, ev); err != nil {
			return Assessment{}, err
		}
	}

	a.AdjustedPositionSize = a.Position.PositionSize
	if req.Signals != nil {
		out := risk.CalculateUnifiedPositionSize(*req.Signals)
		a.Unified = &out
		a.AdjustedPositionSize = a.Position.PositionSize * out.FinalMultiplier
		e.metrics.Multiplier(out.FinalMultiplier)
	}

	e.finish(&a)
	return a, nil
}

// Open assesses req and, when the trade is allowed, counts the position on
// the snapshot the checks ran against. If the day changed in between the
// write fails with tracker.ErrConflict; retry the whole call with
// tracker.RetryOnConflict so the checks see the new state.
func (e *Engine) Open(ctx context.Context, req TradeRequest) (Assessment, error) {
	a, err := e.Assess(ctx, req)
	if err != nil {
		return Assessment{}, err
	}
	if !a.Allowed() {
		return a, nil
	}

	u, err := e.tracker.Open(ctx, a.Profile, a.Snapshot, a.Position.CapitalDeploymentPercent)
	if err != nil {
		return Assessment{}, fmt.Errorf("open position: %w", err)
	}
	a.Snapshot = u.Snapshot
	a.Events = append(a.Events, u.Events...)
	a.Opened = true

	e.log.Info().
		Str("user", req.UserID).
		Str("instrument", req.Instrument).
		Int("positions_open", u.Snapshot.PositionsOpen).
		Int64("version", u.Snapshot.Version).
		Msg("position opened")
	return a, nil
}

func (e *Engine) checkWeek(ctx context.Context, a *Assessment) error {
	w, err := e.tracker.WeeklyPnl(ctx, a.Request.UserID, a.Request.Now)
	if err != nil {
		return fmt.Errorf("weekly pnl: %w", err)
	}
	if w.StartingBalance <= 0 {
		w.StartingBalance = a.Snapshot.StartingBalance
	}
	a.Week = w

	limit := w.StartingBalance * a.Profile.MaxWeeklyDrawdownPercent / 100
	used := math.Abs(math.Min(w.Pnl, 0))
	if used+a.Position.RiskAmount > limit {
		a.Verdict.Add(CodeWeeklyDrawdown, fmt.Sprintf(
			"Trade would exceed weekly drawdown limit; remaining budget %s", risk.Money(math.Max(limit-used, 0))))
	}
	return nil
}

func (e *Engine) checkCorrelation(ctx context.Context, a *Assessment) error {
	if a.Request.Bucket == "" {
		return nil
	}
	exposure := a.Request.CorrelatedExposure + a.Position.CapitalDeploymentPercent/100
	limit := a.Profile.MaxCorrelatedExposure
	if exposure <= limit {
		return nil
	}

	msg := fmt.Sprintf("Correlated exposure in %s would be %.0f%%, above max %.0f%%",
		a.Request.Bucket, exposure*100, limit*100)
	a.Advisories = append(a.Advisories, msg)
	return e.emit(ctx, a, risk.RiskEvent{
		UserID:         a.Request.UserID,
		Type:           risk.EventCorrelationWarning,
		EventDate:      a.Snapshot.SnapshotDate,
		TriggerValue:   exposure,
		ThresholdValue: limit,
		Message:        msg,
		Metadata: risk.CorrelationMeta{
			Bucket:      a.Request.Bucket,
			Exposure:    exposure,
			MaxExposure: limit,
		},
	})
}

func (e *Engine) emit(ctx context.Context, a *Assessment, ev risk.RiskEvent) error {
	ok, err := e.tracker.Emit(ctx, ev)
	if err != nil {
		return fmt.Errorf("append %s event: %w", ev.Type, err)
	}
	if ok {
		a.Events = append(a.Events, ev)
	}
	return nil
}

func (e *Engine) finish(a *Assessment) {
	for _, v := range a.Verdict.Violations {
		e.metrics.Violation(v.Code)
	}
	e.metrics.Verdict(a.Allowed())

	ev := e.log.Info()
	if !a.Allowed() {
		ev = e.log.Warn()
	}
	ev.Str("user", a.Request.UserID).
		Str("instrument", a.Request.Instrument).
		Float64("size", a.Position.PositionSize).
		Float64("adjusted_size", a.AdjustedPositionSize).
		Float64("risk_amount", a.Position.RiskAmount).
		Int("violations", len(a.Verdict.Violations)).
		Bool("allowed", a.Allowed()).
		Msg("trade assessed")
}
