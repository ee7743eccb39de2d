package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/itsramaa/trading-journal/risk"
)

var snapshotCSVHeader = []string{
	"snapshot_date", "starting_balance", "current_pnl", "loss_limit_used_percent",
	"positions_open", "capital_deployed_percent", "trading_allowed", "sealed",
}

var eventCSVHeader = []string{
	"event_date", "event_type", "trigger_value", "threshold_value", "message", "created_at",
}

// WriteSnapshotsCSV writes one row per snapshot after a header row.
func WriteSnapshotsCSV(w io.Writer, snaps []risk.DailySnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(snapshotCSVHeader); err != nil {
		return err
	}
	for _, s := range snaps {
		if err := cw.Write([]string{
			s.SnapshotDate,
			f(s.StartingBalance),
			f(s.CurrentPnl),
			f(s.LossLimitUsedPercent),
			strconv.Itoa(s.PositionsOpen),
			f(s.CapitalDeployedPercent),
			strconv.FormatBool(s.TradingAllowed),
			strconv.FormatBool(s.Sealed),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEventsCSV writes one row per event after a header row.
func WriteEventsCSV(w io.Writer, events []risk.RiskEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(eventCSVHeader); err != nil {
		return err
	}
	for _, ev := range events {
		if err := cw.Write([]string{
			ev.EventDate,
			string(ev.Type),
			f(ev.TriggerValue),
			f(ev.ThresholdValue),
			ev.Message,
			ev.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
