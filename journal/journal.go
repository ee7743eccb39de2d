// Package journal persists the trading journal: risk profiles, daily risk
// snapshots, the risk event log and closed trades.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/itsramaa/trading-journal/risk"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("snapshot version conflict")
	ErrSealed              = errors.New("snapshot is sealed")
	ErrActiveProfileExists = errors.New("user already has an active risk profile")
)

// TradeRecord is a closed trade as written to the journal.
type TradeRecord struct {
	TradeID    string
	UserID     string
	Instrument string
	Side       string // "long" or "short"
	Units      float64
	EntryPrice float64
	StopPrice  float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	RiskAmount float64
	RealizedPL float64
	Reason     string
}

// RMultiple is the realized P/L in units of the risk taken, 0 when no risk was recorded.
func (t TradeRecord) RMultiple() float64 {
	if t.RiskAmount <= 0 {
		return 0
	}
	return t.RealizedPL / t.RiskAmount
}

// SnapshotStore holds daily risk snapshots and the event log. Both the SQLite
// and Redis stores implement it.
type SnapshotStore interface {
	GetSnapshot(ctx context.Context, userID, date string) (risk.DailySnapshot, error)
	LatestSnapshotBefore(ctx context.Context, userID, date string) (risk.DailySnapshot, error)
	CreateSnapshot(ctx context.Context, s risk.DailySnapshot) (risk.DailySnapshot, error)
	UpdateSnapshot(ctx context.Context, s risk.DailySnapshot) (risk.DailySnapshot, error)
	SealSnapshot(ctx context.Context, userID, date string) error
	ListSnapshots(ctx context.Context, userID, from, to string) ([]risk.DailySnapshot, error)

	AppendEvent(ctx context.Context, ev risk.RiskEvent) (bool, error)
	ListEvents(ctx context.Context, userID, from, to string) ([]risk.RiskEvent, error)
}

// ProfileStore holds risk profiles. At most one profile per user is active.
type ProfileStore interface {
	ActiveProfile(ctx context.Context, userID string) (risk.RiskProfile, error)
	CreateProfile(ctx context.Context, p risk.RiskProfile) (risk.RiskProfile, error)
	UpdateProfile(ctx context.Context, p risk.RiskProfile) (risk.RiskProfile, error)
	DeactivateProfile(ctx context.Context, userID string) error
}

var (
	_ SnapshotStore = (*SQLite)(nil)
	_ ProfileStore  = (*SQLite)(nil)
	_ SnapshotStore = (*Redis)(nil)
)
