package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsramaa/trading-journal/risk"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	trade := TradeRecord{
		TradeID:    "01HV3K8Z9Q-abcd",
		Instrument: "ETHUSDT",
		Side:       "short",
		Units:      1.5,
		EntryPrice: 3200,
		StopPrice:  3280,
		ExitPrice:  3040,
		OpenTime:   time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC),
		CloseTime:  time.Date(2024, 3, 15, 14, 20, 30, 0, time.UTC),
		RiskAmount: 120,
		RealizedPL: 240,
		Reason:     "failed breakout",
	}

	out := FormatTradeOrg(trade)
	assert.True(t, strings.HasPrefix(out, "** Trade: ETHUSDT short (01HV3K8Z)"))
	assert.Contains(t, out, ":UNITS: 1.5\n")
	assert.Contains(t, out, ":STOP_PRICE: 3280.00000\n")
	assert.Contains(t, out, ":R_MULTIPLE: 2.00\n")
	assert.Contains(t, out, ":OPEN_TIME: 2024-03-15T10:30:45Z\n")

	assert.Contains(t, out, ":END:\n- Outcome :: win $240.00 against $120.00 at risk\n")
	assert.True(t, strings.HasSuffix(out, "- Reason :: failed breakout\n"))

	trade.Reason = ""
	trade.RealizedPL = -120
	out = FormatTradeOrg(trade)
	assert.Contains(t, out, "- Outcome :: loss -$120.00 against $120.00 at risk\n")
	assert.NotContains(t, out, "Reason")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatTradesOrg(nil))

	out := FormatTradesOrg([]TradeRecord{{TradeID: "a"}, {TradeID: "b"}})
	assert.Len(t, strings.Split(out, "\n\n\n"), 2)
}

func TestFormatDayOrg(t *testing.T) {
	t.Parallel()

	s := risk.NewDailySnapshot("u1", time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), 10000)
	s.CurrentPnl = -460
	s.Recompute(5)

	out := FormatDayOrg(s, []risk.RiskEvent{
		{Type: risk.EventWarning70, Message: "70% used"},
		{Type: risk.EventWarning90, Message: "90% used"},
	})

	lines := strings.Split(out, "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "** Risk day: 2024-06-03 [warning_90]", lines[0])
	assert.Contains(t, out, ":LOSS_LIMIT_USED: 92.00\n")
	assert.Contains(t, out, "- warning_70 :: 70% used\n")
	assert.Contains(t, out, "- warning_90 :: 90% used\n")
}

func TestShortID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", shortID(""))
	assert.Equal(t, "short", shortID("short"))
	assert.Equal(t, "12345678", shortID("123456789"))
}
