package tracker

import (
	"context"
	"fmt"

	"github.com/itsramaa/trading-journal/journal"
)

// TradeWriter stores closed trades.
type TradeWriter interface {
	RecordTrade(ctx context.Context, t journal.TradeRecord) error
}

// CloseTrade books tr's realized P/L on the day of tr.CloseTime and then
// stores tr. The trade is written only once the P/L is booked, so a sealed
// day or exhausted conflict retries leave no trade row behind.
func (t *Tracker) CloseTrade(ctx context.Context, trades TradeWriter, tr journal.TradeRecord, deploymentPct float64, attempts int) (Update, error) {
	var u Update
	err := RetryOnConflict(ctx, attempts, func() error {
		var err error
		u, err = t.RecordClose(ctx, tr.UserID, tr.CloseTime, tr.RealizedPL, deploymentPct)
		return err
	})
	if err != nil {
		return Update{}, fmt.Errorf("book pnl for trade %s: %w", tr.TradeID, err)
	}

	if err := trades.RecordTrade(ctx, tr); err != nil {
		t.log.Error().
			Err(err).
			Str("user", tr.UserID).
			Str("trade", tr.TradeID).
			Float64("pnl", tr.RealizedPL).
			Msg("pnl booked but trade not stored")
		return u, fmt.Errorf("record trade %s: %w", tr.TradeID, err)
	}
	return u, nil
}
