package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/itsramaa/trading-journal/risk"
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Compute a risk-based position size",
	Long: `Size a position so that hitting the stop loses exactly the risked
share of the balance.

Examples:
  riskctl size --balance 10000 --risk 2 --entry 50000 --stop 49000
  riskctl size --entry 3200 --stop 3280 --target 3040 --leverage 5`,
	Args: cobra.NoArgs,
	RunE: runSize,
}

var sizeIn risk.PositionSizeInput

func init() {
	rootCmd.AddCommand(sizeCmd)
	addPositionFlags(sizeCmd, &sizeIn)
}

// addPositionFlags registers the sizing inputs. Zero balance and risk fall
// back to the configured account and profile.
func addPositionFlags(cmd *cobra.Command, in *risk.PositionSizeInput) {
	cmd.Flags().Float64Var(&in.AccountBalance, "balance", 0, "account balance (default: configured balance)")
	cmd.Flags().Float64Var(&in.RiskPercent, "risk", 0, "risk per trade in percent (default: profile)")
	cmd.Flags().Float64Var(&in.EntryPrice, "entry", 0, "entry price")
	cmd.Flags().Float64Var(&in.StopLossPrice, "stop", 0, "stop loss price")
	cmd.Flags().Float64Var(&in.TargetPrice, "target", 0, "optional target price")
	cmd.Flags().Float64Var(&in.Leverage, "leverage", 1, "leverage")
	_ = cmd.MarkFlagRequired("entry")
	_ = cmd.MarkFlagRequired("stop")
}

func resolvePosition(in risk.PositionSizeInput) risk.PositionSizeInput {
	if in.AccountBalance <= 0 {
		in.AccountBalance = cfg.Account.Balance
	}
	if in.RiskPercent <= 0 {
		in.RiskPercent = cfg.Profile.RiskPerTradePercent
	}
	return in
}

func runSize(cmd *cobra.Command, args []string) error {
	in := resolvePosition(sizeIn)
	res := risk.ComputePositionSize(in)
	recorder.Sizing(res.IsValid)

	renderPosition(cmd, in, res)
	return nil
}

func renderPosition(cmd *cobra.Command, in risk.PositionSizeInput, res risk.PositionSizeResult) {
	t := newTable(cmd, "POSITION SIZE")
	t.AppendRows([]table.Row{
		{"Balance", risk.Money(in.AccountBalance)},
		{"Risk", fmt.Sprintf("%.2f%% (%s)", in.RiskPercent, risk.Money(res.RiskAmount))},
		{"Entry / Stop", fmt.Sprintf("%g / %g", in.EntryPrice, in.StopLossPrice)},
		{"Stop distance", fmt.Sprintf("%g (%.2f%%)", res.StopDistance, res.StopDistancePercent)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Position size", fmt.Sprintf("%.6f", res.PositionSize)},
		{"Position value", risk.Money(res.PositionValue)},
		{"Capital deployed", fmt.Sprintf("%.2f%%", res.CapitalDeploymentPercent)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Potential loss", risk.Money(res.PotentialLoss)},
		{"Profit 1R / 2R / 3R", fmt.Sprintf("%s / %s / %s",
			risk.Money(res.PotentialProfit1R), risk.Money(res.PotentialProfit2R), risk.Money(res.PotentialProfit3R))},
	})
	if in.TargetPrice > 0 {
		t.AppendRow(table.Row{"Reward:risk", fmt.Sprintf("%.2f", res.RewardRiskRatio)})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"Valid", yesNo(res.IsValid)})
	for _, is := range res.Issues {
		t.AppendRow(table.Row{fmt.Sprintf("%s (%s)", is.Code, is.Severity), is.Msg})
	}
	t.Render()
}
