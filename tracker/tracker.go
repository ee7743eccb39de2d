// Package tracker maintains each user's daily risk snapshot. Every mutation
// is a read, recompute and versioned write; threshold crossings are appended
// to the risk event log once per (type, day).
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/itsramaa/trading-journal/journal"
	"github.com/itsramaa/trading-journal/metrics"
	"github.com/itsramaa/trading-journal/risk"
)

var (
	// ErrConflict is returned when another writer updated the day first.
	ErrConflict = journal.ErrConflict
	// ErrSealed is returned when writing to a finished day.
	ErrSealed = journal.ErrSealed
	// ErrTradingDisabled is returned when opening a position on a day whose
	// loss limit is used up.
	ErrTradingDisabled = errors.New("trading disabled")
)

// ProfileSource supplies the active risk profile for a user.
type ProfileSource interface {
	ActiveProfile(ctx context.Context, userID string) (risk.RiskProfile, error)
}

type Tracker struct {
	store    journal.SnapshotStore
	profiles ProfileSource
	log      zerolog.Logger
	metrics  *metrics.Recorder

	// StartingBalance opens a user's first ever day.
	StartingBalance float64
}

// New returns a Tracker over store. profiles may be nil, in which case every
// user gets risk.DefaultProfile.
func New(store journal.SnapshotStore, profiles ProfileSource, log zerolog.Logger, rec *metrics.Recorder) *Tracker {
	return &Tracker{
		store:    store,
		profiles: profiles,
		log:      log.With().Str("component", "tracker").Logger(),
		metrics:  rec,
	}
}

// Update is the result of a successful mutation.
type Update struct {
	Snapshot risk.DailySnapshot
	Previous risk.Level
	Events   []risk.RiskEvent
}

// Profile returns the user's active profile, or the default one when the
// user has none.
func (t *Tracker) Profile(ctx context.Context, userID string) (risk.RiskProfile, error) {
	if t.profiles == nil {
		return risk.DefaultProfile(userID), nil
	}
	p, err := t.profiles.ActiveProfile(ctx, userID)
	if errors.Is(err, journal.ErrNotFound) {
		return risk.DefaultProfile(userID), nil
	}
	if err != nil {
		return risk.RiskProfile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// Today returns the user's snapshot for the UTC day containing now, creating
// it if needed. A new day seals the latest earlier day and starts from its
// ending balance; fallbackBalance is used when there is no earlier day.
func (t *Tracker) Today(ctx context.Context, userID string, now time.Time, fallbackBalance float64) (risk.DailySnapshot, error) {
	day := now.UTC()
	date := day.Format(risk.DateLayout)

	s, err := t.store.GetSnapshot(ctx, userID, date)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, journal.ErrNotFound) {
		return risk.DailySnapshot{}, err
	}

	start := fallbackBalance
	prior, err := t.store.LatestSnapshotBefore(ctx, userID, date)
	switch {
	case err == nil:
		start = prior.EndingBalance()
		if !prior.Sealed {
			if err := t.store.SealSnapshot(ctx, userID, prior.SnapshotDate); err != nil {
				return risk.DailySnapshot{}, fmt.Errorf("seal %s: %w", prior.SnapshotDate, err)
			}
			t.log.Info().
				Str("user", userID).
				Str("date", prior.SnapshotDate).
				Float64("ending_balance", start).
				Msg("day sealed")
		}
	case !errors.Is(err, journal.ErrNotFound):
		return risk.DailySnapshot{}, err
	}

	s, err = t.store.CreateSnapshot(ctx, risk.NewDailySnapshot(userID, day, start))
	if errors.Is(err, journal.ErrConflict) {
		// Someone else opened the day first.
		return t.store.GetSnapshot(ctx, userID, date)
	}
	if err != nil {
		return risk.DailySnapshot{}, err
	}
	t.log.Debug().Str("user", userID).Str("date", date).Float64("starting_balance", start).Msg("day opened")
	return s, nil
}

// Open counts a newly opened position using deploymentPct of capital. snap
// must be the snapshot the trade was validated against: the write only lands
// if the day is still at snap.Version, so a concurrent open fails with
// ErrConflict and the caller re-runs its checks.
func (t *Tracker) Open(ctx context.Context, p risk.RiskProfile, snap risk.DailySnapshot, deploymentPct float64) (Update, error) {
	if !snap.TradingAllowed {
		return Update{}, fmt.Errorf("open position on %s: %w", snap.SnapshotDate, ErrTradingDisabled)
	}
	return t.commit(ctx, p, snap, func(s *risk.DailySnapshot) {
		s.PositionsOpen++
		s.CapitalDeployedPercent = add(s.CapitalDeployedPercent, deploymentPct)
	})
}

// RecordClose books the realized pnl of a closed position and releases its
// deployed capital.
func (t *Tracker) RecordClose(ctx context.Context, userID string, now time.Time, pnl, deploymentPct float64) (Update, error) {
	return t.mutate(ctx, userID, now, func(s *risk.DailySnapshot) {
		if s.PositionsOpen > 0 {
			s.PositionsOpen--
		}
		s.CapitalDeployedPercent = max(add(s.CapitalDeployedPercent, -deploymentPct), 0)
		s.CurrentPnl = add(s.CurrentPnl, pnl)
	})
}

// ApplyPnl books pnl without changing the position count, e.g. fees or a
// partial close.
func (t *Tracker) ApplyPnl(ctx context.Context, userID string, now time.Time, pnl float64) (Update, error) {
	return t.mutate(ctx, userID, now, func(s *risk.DailySnapshot) {
		s.CurrentPnl = add(s.CurrentPnl, pnl)
	})
}

func (t *Tracker) mutate(ctx context.Context, userID string, now time.Time, apply func(*risk.DailySnapshot)) (Update, error) {
	p, err := t.Profile(ctx, userID)
	if err != nil {
		return Update{}, err
	}
	s, err := t.Today(ctx, userID, now, t.StartingBalance)
	if err != nil {
		return Update{}, err
	}
	return t.commit(ctx, p, s, apply)
}

func (t *Tracker) commit(ctx context.Context, p risk.RiskProfile, s risk.DailySnapshot, apply func(*risk.DailySnapshot)) (Update, error) {
	userID := s.UserID
	prev := s.Level()
	apply(&s)
	s.Recompute(p.MaxDailyLossPercent)

	written, err := t.store.UpdateSnapshot(ctx, s)
	if err != nil {
		if errors.Is(err, journal.ErrConflict) {
			t.metrics.Conflict()
			t.log.Warn().Str("user", userID).Str("date", s.SnapshotDate).Int64("version", s.Version).Msg("snapshot version conflict")
		}
		return Update{}, err
	}
	s = written
	t.metrics.LossLimitUsed(userID, s.LossLimitUsedPercent)

	u := Update{Snapshot: s, Previous: prev}
	for _, typ := range risk.CrossedEvents(prev, s.Level()) {
		ev := lossEvent(typ, s, p)
		ok, err := t.Emit(ctx, ev)
		if err != nil {
			// The snapshot is already written; a missing event is logged, not retried.
			t.log.Error().Err(err).Str("user", userID).Str("event", string(typ)).Msg("append risk event")
			continue
		}
		if ok {
			u.Events = append(u.Events, ev)
		}
	}
	return u, nil
}

// Emit appends ev to the event log. It reports false for a duplicate.
func (t *Tracker) Emit(ctx context.Context, ev risk.RiskEvent) (bool, error) {
	ok, err := t.store.AppendEvent(ctx, ev)
	if err != nil {
		return false, err
	}
	if ok {
		t.metrics.Event(string(ev.Type))
		t.log.Info().
			Str("user", ev.UserID).
			Str("event", string(ev.Type)).
			Float64("trigger", ev.TriggerValue).
			Float64("threshold", ev.ThresholdValue).
			Msg(ev.Message)
	}
	return ok, nil
}

func lossEvent(typ risk.EventType, s risk.DailySnapshot, p risk.RiskProfile) risk.RiskEvent {
	ev := risk.RiskEvent{
		UserID:       s.UserID,
		Type:         typ,
		EventDate:    s.SnapshotDate,
		TriggerValue: s.LossLimitUsedPercent,
		Metadata: risk.LossLimitMeta{
			CurrentPnl:           s.CurrentPnl,
			StartingBalance:      s.StartingBalance,
			DailyLossLimit:       p.DailyLossLimit(s.StartingBalance),
			LossLimitUsedPercent: s.LossLimitUsedPercent,
		},
	}
	switch typ {
	case risk.EventWarning70:
		ev.ThresholdValue = risk.ThresholdFor(risk.LevelWarning70)
		ev.Message = "70% of daily loss limit used"
	case risk.EventWarning90:
		ev.ThresholdValue = risk.ThresholdFor(risk.LevelWarning90)
		ev.Message = "90% of daily loss limit used"
	case risk.EventLimitReached:
		ev.ThresholdValue = risk.ThresholdFor(risk.LevelDisabled)
		ev.Message = "Daily loss limit reached"
	case risk.EventTradingDisabled:
		ev.ThresholdValue = risk.ThresholdFor(risk.LevelDisabled)
		ev.Message = "Trading disabled for the rest of the day"
	case risk.EventTradingEnabled:
		ev.ThresholdValue = risk.ThresholdFor(risk.LevelDisabled)
		ev.Message = "Trading re-enabled, loss is back under the daily limit"
	}
	return ev
}

func add(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}
