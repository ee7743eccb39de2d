package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/itsramaa/trading-journal/risk"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a position against the configured risk limits",
	Long: `Size a position and validate it against the configured profile using
account state given on the command line. Nothing is read from or written to
the journal; use "assess" for the full pipeline.

Example:
  riskctl check --entry 100 --stop 95 --open 2 --daily-loss -480 --start 10000`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var (
	checkIn        risk.PositionSizeInput
	checkOpen      int
	checkDailyLoss float64
	checkStart     float64
)

func init() {
	rootCmd.AddCommand(checkCmd)
	addPositionFlags(checkCmd, &checkIn)
	checkCmd.Flags().IntVar(&checkOpen, "open", 0, "currently open positions")
	checkCmd.Flags().Float64Var(&checkDailyLoss, "daily-loss", 0, "realized loss so far today")
	checkCmd.Flags().Float64Var(&checkStart, "start", 0, "balance at start of day (default: configured balance)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	in := resolvePosition(checkIn)
	start := checkStart
	if start <= 0 {
		start = cfg.Account.Balance
	}

	res := risk.ComputePositionSize(in)
	recorder.Sizing(res.IsValid)
	v := risk.ValidateRiskLimits(res, cfg.Profile.RiskProfile(cfg.Account.UserID), checkOpen, checkDailyLoss, start)
	recorder.Verdict(v.CanTrade)
	for _, vi := range v.Violations {
		recorder.Violation(vi.Code)
	}

	renderPosition(cmd, in, res)
	renderVerdict(cmd, v, nil)
	return nil
}

func renderVerdict(cmd *cobra.Command, v risk.Verdict, advisories []string) {
	t := newTable(cmd, "RISK LIMITS")
	t.AppendHeader(table.Row{"Check", "Result"})
	t.AppendRow(table.Row{"Can trade", yesNo(v.CanTrade)})
	for _, vi := range v.Violations {
		t.AppendRow(table.Row{vi.Code, vi.Msg})
	}
	for _, msg := range advisories {
		t.AppendRow(table.Row{"ADVISORY", msg})
	}
	t.Render()
}
