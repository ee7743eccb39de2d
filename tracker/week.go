package tracker

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/itsramaa/trading-journal/risk"
)

// Week aggregates the snapshots of one ISO week (Monday to Sunday, UTC).
type Week struct {
	From            string
	To              string
	Days            int
	Pnl             float64
	StartingBalance float64
}

// DrawdownPercent is the week's loss as a percent of its opening balance.
func (w Week) DrawdownPercent() float64 {
	if w.Pnl >= 0 || w.StartingBalance <= 0 {
		return 0
	}
	return -w.Pnl / w.StartingBalance * 100
}

// WeekStart returns midnight UTC of the Monday of now's ISO week.
func WeekStart(now time.Time) time.Time {
	d := now.UTC()
	offset := (int(d.Weekday()) + 6) % 7
	return time.Date(d.Year(), d.Month(), d.Day()-offset, 0, 0, 0, 0, time.UTC)
}

// WeeklyPnl sums CurrentPnl over the snapshots of now's week up to now.
func (t *Tracker) WeeklyPnl(ctx context.Context, userID string, now time.Time) (Week, error) {
	w := Week{
		From: WeekStart(now).Format(risk.DateLayout),
		To:   now.UTC().Format(risk.DateLayout),
	}
	snaps, err := t.store.ListSnapshots(ctx, userID, w.From, w.To)
	if err != nil {
		return Week{}, err
	}

	sum := decimal.Zero
	for i, s := range snaps {
		if i == 0 {
			w.StartingBalance = s.StartingBalance
		}
		sum = sum.Add(decimal.NewFromFloat(s.CurrentPnl))
	}
	w.Days = len(snaps)
	w.Pnl = sum.InexactFloat64()
	return w, nil
}
