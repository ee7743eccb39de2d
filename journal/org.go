package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/itsramaa/trading-journal/risk"
)

// FormatTradeOrg renders a closed trade as an Org-mode entry. Facts go in the
// PROPERTIES drawer; the body states the risk outcome and the reason.
func FormatTradeOrg(t TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (%s)\n", t.Instrument, t.Side, shortID(t.TradeID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.TradeID)
	fmt.Fprintf(&b, ":INSTRUMENT: %s\n", t.Instrument)
	fmt.Fprintf(&b, ":SIDE: %s\n", t.Side)
	fmt.Fprintf(&b, ":UNITS: %g\n", t.Units)
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.5f\n", t.EntryPrice)
	fmt.Fprintf(&b, ":STOP_PRICE: %.5f\n", t.StopPrice)
	fmt.Fprintf(&b, ":EXIT_PRICE: %.5f\n", t.ExitPrice)
	fmt.Fprintf(&b, ":OPEN_TIME: %s\n", t.OpenTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":CLOSE_TIME: %s\n", t.CloseTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":RISK_AMOUNT: %.2f\n", t.RiskAmount)
	fmt.Fprintf(&b, ":REALIZED_PL: %.2f\n", t.RealizedPL)
	fmt.Fprintf(&b, ":R_MULTIPLE: %.2f\n", t.RMultiple())
	b.WriteString(":END:\n")

	fmt.Fprintf(&b, "- Outcome :: %s %s against %s at risk\n",
		outcome(t.RealizedPL), risk.Money(t.RealizedPL), risk.Money(t.RiskAmount))
	if t.Reason != "" {
		fmt.Fprintf(&b, "- Reason :: %s\n", t.Reason)
	}
	return b.String()
}

func outcome(pnl float64) string {
	switch {
	case pnl > 0:
		return "win"
	case pnl < 0:
		return "loss"
	}
	return "flat"
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

// FormatDayOrg renders a day's risk snapshot and its events.
func FormatDayOrg(s risk.DailySnapshot, events []risk.RiskEvent) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("** Risk day: %s [%s]\n", s.SnapshotDate, s.Level()))
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":STARTING_BALANCE: %.2f\n", s.StartingBalance))
	b.WriteString(fmt.Sprintf(":CURRENT_PNL: %.2f\n", s.CurrentPnl))
	b.WriteString(fmt.Sprintf(":LOSS_LIMIT_USED: %.2f\n", s.LossLimitUsedPercent))
	b.WriteString(fmt.Sprintf(":POSITIONS_OPEN: %d\n", s.PositionsOpen))
	b.WriteString(fmt.Sprintf(":CAPITAL_DEPLOYED: %.2f\n", s.CapitalDeployedPercent))
	b.WriteString(fmt.Sprintf(":TRADING_ALLOWED: %t\n", s.TradingAllowed))
	b.WriteString(fmt.Sprintf(":SEALED: %t\n", s.Sealed))
	b.WriteString(":END:\n")

	if len(events) > 0 {
		b.WriteString("\n*** Events\n")
		for _, ev := range events {
			b.WriteString(fmt.Sprintf("- %s :: %s\n", ev.Type, ev.Message))
		}
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
