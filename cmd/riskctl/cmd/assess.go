package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/itsramaa/trading-journal/engine"
	"github.com/itsramaa/trading-journal/risk"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run the full pre-trade check against today's journal state",
	Long: `Size a position, then check it against the active profile, today's
loss usage and open positions, the weekly drawdown and correlated exposure.
Signal multipliers, when given, scale the final size.

Examples:
  riskctl assess --instrument BTCUSDT --entry 50000 --stop 49000
  riskctl assess --entry 3200 --stop 3100 --bucket majors --exposure 0.5 --regime 0.7`,
	Args: cobra.NoArgs,
	RunE: withApp(runAssess),
}

var (
	assessIn         risk.PositionSizeInput
	assessSignals    risk.RiskInputs
	assessInstrument string
	assessBucket     string
	assessExposure   float64
)

func init() {
	rootCmd.AddCommand(assessCmd)
	addPositionFlags(assessCmd, &assessIn)
	addSignalFlags(assessCmd, &assessSignals)
	assessCmd.Flags().StringVar(&assessInstrument, "instrument", "", "instrument symbol")
	assessCmd.Flags().StringVar(&assessBucket, "bucket", "", "correlation bucket of the instrument")
	assessCmd.Flags().Float64Var(&assessExposure, "exposure", 0, "capital share (0-1) already deployed in the bucket")
}

func runAssess(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	req := engine.TradeRequest{
		UserID:             cfg.Account.UserID,
		Instrument:         assessInstrument,
		Position:           assessIn,
		Bucket:             assessBucket,
		CorrelatedExposure: assessExposure,
	}
	if cmd.Flags().Changed("calendar") || cmd.Flags().Changed("regime") || cmd.Flags().Changed("volatility") {
		signals := assessSignals
		req.Signals = &signals
	}

	res, err := a.engine.Assess(ctx, req)
	if err != nil {
		return err
	}

	renderPosition(cmd, res.Request.Position, res.Position)
	renderVerdict(cmd, res.Verdict, res.Advisories)

	t := newTable(cmd, "ASSESSMENT")
	t.AppendRows([]table.Row{
		{"Day", fmt.Sprintf("%s (%s)", res.Snapshot.SnapshotDate, res.Snapshot.Level())},
		{"Loss limit used", fmt.Sprintf("%.2f%%", res.Snapshot.LossLimitUsedPercent)},
		{"Week P/L", fmt.Sprintf("%s (%s to %s)", risk.Money(res.Week.Pnl), res.Week.From, res.Week.To)},
	})
	if res.Unified != nil {
		t.AppendRow(table.Row{"Multiplier", fmt.Sprintf("%.2f via %s: %s",
			res.Unified.FinalMultiplier, res.Unified.DominantFactor, res.Unified.FinalSizeLabel)})
	}
	t.AppendRow(table.Row{"Final size", fmt.Sprintf("%.6f", res.AdjustedPositionSize)})
	t.AppendRow(table.Row{"Allowed", yesNo(res.Allowed())})
	for _, ev := range res.Events {
		t.AppendRow(table.Row{"Event", fmt.Sprintf("%s: %s", ev.Type, ev.Message)})
	}
	t.Render()
	return nil
}
