package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/itsramaa/trading-journal/id"
	"github.com/itsramaa/trading-journal/journal"
	"github.com/itsramaa/trading-journal/risk"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Record and query closed trades",
	Long: `Record closed trades and render them as Org-mode entries.

Subcommands:
  record - Record a closed trade and book its P/L on today's snapshot
  trade  - Get details of a specific trade by ID
  today  - List trades closed today
  day    - List trades closed on a specific day
  stats  - Summarize trades closed in a date range

Examples:
  riskctl journal record --instrument BTCUSDT --side long --units 0.2 --entry 50000 --stop 49000 --exit 51000
  riskctl journal trade <trade-id>
  riskctl journal day 2024-01-15`,
}

var journalRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a closed trade",
	Args:  cobra.NoArgs,
	RunE:  withApp(runJournalRecord),
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runJournalTrade),
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE:  withApp(runJournalToday),
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runJournalDay),
}

var journalStatsCmd = &cobra.Command{
	Use:   "stats <from YYYY-MM-DD> <to YYYY-MM-DD>",
	Short: "Summarize trades closed in a date range (inclusive)",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runJournalStats),
}

var (
	rec           journal.TradeRecord
	recOpened     string
	recDeployment float64
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRecordCmd, journalTradeCmd, journalTodayCmd, journalDayCmd, journalStatsCmd)

	f := journalRecordCmd.Flags()
	f.StringVar(&rec.Instrument, "instrument", "", "instrument symbol")
	f.StringVar(&rec.Side, "side", "long", "long or short")
	f.Float64Var(&rec.Units, "units", 0, "position size in units")
	f.Float64Var(&rec.EntryPrice, "entry", 0, "entry price")
	f.Float64Var(&rec.StopPrice, "stop", 0, "initial stop price")
	f.Float64Var(&rec.ExitPrice, "exit", 0, "exit price")
	f.StringVar(&rec.Reason, "reason", "", "why the trade was taken")
	f.StringVar(&recOpened, "opened", "", "open time, RFC3339 (default: now)")
	f.Float64Var(&recDeployment, "deployment", 0, "capital released by closing, percent")
	_ = journalRecordCmd.MarkFlagRequired("instrument")
	_ = journalRecordCmd.MarkFlagRequired("units")
	_ = journalRecordCmd.MarkFlagRequired("entry")
	_ = journalRecordCmd.MarkFlagRequired("exit")
}

func runJournalRecord(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	now := time.Now().UTC()
	t := rec
	t.TradeID = id.New()
	t.UserID = cfg.Account.UserID
	t.CloseTime = now
	t.OpenTime = now
	if recOpened != "" {
		opened, err := time.Parse(time.RFC3339, recOpened)
		if err != nil {
			return fmt.Errorf("opened: %w", err)
		}
		t.OpenTime = opened
	}

	dir := 1.0
	if t.Side == "short" {
		dir = -1
	} else if t.Side != "long" {
		return fmt.Errorf("side must be long or short, got %q", t.Side)
	}
	t.RealizedPL = (t.ExitPrice - t.EntryPrice) * t.Units * dir
	if t.StopPrice > 0 {
		t.RiskAmount = (t.EntryPrice - t.StopPrice) * t.Units * dir
	}

	u, err := a.tracker.CloseTrade(ctx, a.db, t, recDeployment, conflictRetries)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t))
	renderSnapshot(cmd, u.Snapshot, u.Events)
	return nil
}

func runJournalTrade(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	r, err := a.db.GetTrade(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(r))
	return nil
}

func runJournalToday(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	return printTradesOn(ctx, cmd, a, time.Now().UTC().Format(risk.DateLayout))
}

func runJournalDay(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	return printTradesOn(ctx, cmd, a, args[0])
}

func printTradesOn(ctx context.Context, cmd *cobra.Command, a *app, day string) error {
	start, err := time.Parse(risk.DateLayout, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := a.db.ListTradesClosedBetween(ctx, cfg.Account.UserID, start, start.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func runJournalStats(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	from, err := time.Parse(risk.DateLayout, args[0])
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}
	to, err := time.Parse(risk.DateLayout, args[1])
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}

	recs, err := a.db.ListTradesClosedBetween(ctx, cfg.Account.UserID, from, to.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	s := journal.Summarize(recs)

	t := newTable(cmd, fmt.Sprintf("TRADES %s .. %s", args[0], args[1]))
	t.AppendRows([]table.Row{
		{"Trades", s.Trades},
		{"Wins / Losses", fmt.Sprintf("%d / %d", s.Wins, s.Losses)},
		{"Win rate", fmt.Sprintf("%.1f%%", s.WinRate*100)},
		{"Net P/L", risk.Money(s.NetPL)},
		{"Profit factor", fmt.Sprintf("%.2f", s.ProfitFactor)},
		{"Avg R", fmt.Sprintf("%.2f", s.AvgR)},
	})
	t.Render()
	return nil
}
