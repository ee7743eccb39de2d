package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/itsramaa/trading-journal/engine"
	"github.com/itsramaa/trading-journal/journal"
	"github.com/itsramaa/trading-journal/risk"
	"github.com/itsramaa/trading-journal/tracker"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Track today's loss usage and positions",
	Long: `Show and update the daily risk snapshot. Days are UTC; the first
command of a new day seals the previous one and carries its ending balance
forward.

Subcommands:
  show   - Show a day's snapshot and events
  open   - Run the pre-trade check and record the position if allowed
  close  - Record a closed position and its P/L
  pnl    - Book P/L without changing positions
  export - Export snapshots as CSV or Org

Examples:
  riskctl day open --instrument BTCUSDT --entry 50000 --stop 49000
  riskctl day close --pnl -180 --deployment 25
  riskctl day export --from 2024-06-01 --to 2024-06-30 --format csv`,
}

var dayShowCmd = &cobra.Command{
	Use:   "show [YYYY-MM-DD]",
	Short: "Show a day's snapshot (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  withApp(runDayShow),
}

var dayOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Check and record an opened position",
	Args:  cobra.NoArgs,
	RunE:  withApp(runDayOpen),
}

var dayCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Record a closed position",
	Args:  cobra.NoArgs,
	RunE:  withApp(runDayClose),
}

var dayPnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Book realized P/L",
	Args:  cobra.NoArgs,
	RunE:  withApp(runDayPnl),
}

var dayExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export snapshots",
	Args:  cobra.NoArgs,
	RunE:  withApp(runDayExport),
}

var (
	dayOpenIn      risk.PositionSizeInput
	dayOpenSignals risk.RiskInputs
	dayInstrument  string
	dayBucket      string
	dayExposure    float64
	dayDeployment  float64
	dayPnl         float64
	dayFrom        string
	dayTo          string
	dayFormat      string
	dayOut         string
	dayEvents      bool
)

const conflictRetries = 3

func init() {
	rootCmd.AddCommand(dayCmd)
	dayCmd.AddCommand(dayShowCmd, dayOpenCmd, dayCloseCmd, dayPnlCmd, dayExportCmd)

	addPositionFlags(dayOpenCmd, &dayOpenIn)
	addSignalFlags(dayOpenCmd, &dayOpenSignals)
	dayOpenCmd.Flags().StringVar(&dayInstrument, "instrument", "", "instrument symbol")
	dayOpenCmd.Flags().StringVar(&dayBucket, "bucket", "", "correlation bucket of the instrument")
	dayOpenCmd.Flags().Float64Var(&dayExposure, "exposure", 0, "capital share (0-1) already deployed in the bucket")
	dayCloseCmd.Flags().Float64Var(&dayDeployment, "deployment", 0, "capital released by the position, percent")
	dayCloseCmd.Flags().Float64Var(&dayPnl, "pnl", 0, "realized P/L of the position")
	dayPnlCmd.Flags().Float64Var(&dayPnl, "amount", 0, "P/L to book (negative for a loss)")
	_ = dayPnlCmd.MarkFlagRequired("amount")

	dayExportCmd.Flags().StringVar(&dayFrom, "from", "", "first day, YYYY-MM-DD (default: 30 days ago)")
	dayExportCmd.Flags().StringVar(&dayTo, "to", "", "last day, YYYY-MM-DD (default: today)")
	dayExportCmd.Flags().StringVarP(&dayFormat, "format", "f", "csv", "csv or org")
	dayExportCmd.Flags().StringVarP(&dayOut, "output", "o", "", "output file (default stdout)")
	dayExportCmd.Flags().BoolVar(&dayEvents, "events", false, "export the event log instead of snapshots (csv only)")
}

func runDayShow(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	var (
		s   risk.DailySnapshot
		err error
	)
	if len(args) == 1 {
		if _, err := time.Parse(risk.DateLayout, args[0]); err != nil {
			return fmt.Errorf("date: %w", err)
		}
		s, err = a.snaps.GetSnapshot(ctx, cfg.Account.UserID, args[0])
	} else {
		s, err = a.tracker.Today(ctx, cfg.Account.UserID, time.Now(), cfg.Account.Balance)
	}
	if err != nil {
		return err
	}

	events, err := a.snaps.ListEvents(ctx, cfg.Account.UserID, s.SnapshotDate, s.SnapshotDate)
	if err != nil {
		return err
	}
	renderSnapshot(cmd, s, events)
	return nil
}

func runDayOpen(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	req := engine.TradeRequest{
		UserID:             cfg.Account.UserID,
		Instrument:         dayInstrument,
		Position:           dayOpenIn,
		Bucket:             dayBucket,
		CorrelatedExposure: dayExposure,
	}
	if cmd.Flags().Changed("calendar") || cmd.Flags().Changed("regime") || cmd.Flags().Changed("volatility") {
		signals := dayOpenSignals
		req.Signals = &signals
	}

	var res engine.Assessment
	err := tracker.RetryOnConflict(ctx, conflictRetries, func() error {
		var err error
		res, err = a.engine.Open(ctx, req)
		return err
	})
	if err != nil {
		return err
	}

	renderVerdict(cmd, res.Verdict, res.Advisories)
	renderSnapshot(cmd, res.Snapshot, res.Events)
	if !res.Opened {
		return fmt.Errorf("position not opened: %d limit violation(s)", len(res.Verdict.Violations))
	}
	return nil
}

func runDayClose(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	return mutateDay(ctx, cmd, func() (tracker.Update, error) {
		return a.tracker.RecordClose(ctx, cfg.Account.UserID, time.Now(), dayPnl, dayDeployment)
	})
}

func runDayPnl(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	return mutateDay(ctx, cmd, func() (tracker.Update, error) {
		return a.tracker.ApplyPnl(ctx, cfg.Account.UserID, time.Now(), dayPnl)
	})
}

func mutateDay(ctx context.Context, cmd *cobra.Command, fn func() (tracker.Update, error)) error {
	var u tracker.Update
	err := tracker.RetryOnConflict(ctx, conflictRetries, func() error {
		var err error
		u, err = fn()
		return err
	})
	if err != nil {
		return err
	}
	renderSnapshot(cmd, u.Snapshot, u.Events)
	return nil
}

func runDayExport(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	now := time.Now().UTC()
	from, to := dayFrom, dayTo
	if to == "" {
		to = now.Format(risk.DateLayout)
	}
	if from == "" {
		from = now.AddDate(0, 0, -30).Format(risk.DateLayout)
	}

	var w io.Writer = cmd.OutOrStdout()
	if dayOut != "" {
		f, err := os.Create(dayOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	events, err := a.snaps.ListEvents(ctx, cfg.Account.UserID, from, to)
	if err != nil {
		return err
	}

	switch dayFormat {
	case "csv":
		if dayEvents {
			return journal.WriteEventsCSV(w, events)
		}
		snaps, err := a.snaps.ListSnapshots(ctx, cfg.Account.UserID, from, to)
		if err != nil {
			return err
		}
		return journal.WriteSnapshotsCSV(w, snaps)
	case "org":
		snaps, err := a.snaps.ListSnapshots(ctx, cfg.Account.UserID, from, to)
		if err != nil {
			return err
		}
		byDay := map[string][]risk.RiskEvent{}
		for _, ev := range events {
			byDay[ev.EventDate] = append(byDay[ev.EventDate], ev)
		}
		for i, s := range snaps {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprint(w, journal.FormatDayOrg(s, byDay[s.SnapshotDate]))
		}
		return nil
	}
	return fmt.Errorf("unknown format %q (want csv or org)", dayFormat)
}

func renderSnapshot(cmd *cobra.Command, s risk.DailySnapshot, events []risk.RiskEvent) {
	t := newTable(cmd, "DAY "+s.SnapshotDate)
	t.AppendRows([]table.Row{
		{"Starting balance", risk.Money(s.StartingBalance)},
		{"P/L", risk.Money(s.CurrentPnl)},
		{"Loss limit used", fmt.Sprintf("%.2f%% (%s)", s.LossLimitUsedPercent, s.Level())},
		{"Open positions", s.PositionsOpen},
		{"Capital deployed", fmt.Sprintf("%.2f%%", s.CapitalDeployedPercent)},
		{"Trading allowed", yesNo(s.TradingAllowed)},
		{"Sealed", yesNo(s.Sealed)},
	})
	if len(events) > 0 {
		t.AppendSeparator()
		for _, ev := range events {
			t.AppendRow(table.Row{string(ev.Type), ev.Message})
		}
	}
	t.Render()
}
