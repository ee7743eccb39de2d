package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/itsramaa/trading-journal/style"
)

var styleCmd = &cobra.Command{
	Use:   "style [name]",
	Short: "Show weight profiles for a trading style",
	Long: `Show the composite and orchestrator weights, range horizon and event
window for a trading style. Without a name the configured style is shown;
--all lists every style.

Examples:
  riskctl style swing
  riskctl style --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStyle,
}

var (
	styleAll     bool
	styleEventIn float64
)

func init() {
	rootCmd.AddCommand(styleCmd)
	styleCmd.Flags().BoolVar(&styleAll, "all", false, "list every style")
	styleCmd.Flags().Float64Var(&styleEventIn, "event-in", -1, "hours until the next calendar event; shows whether it is inside each style's window")
}

func runStyle(cmd *cobra.Command, args []string) error {
	var styles []style.Style
	switch {
	case styleAll:
		styles = style.All
	default:
		name := cfg.Style
		if len(args) == 1 {
			name = args[0]
		}
		s, err := style.Parse(name)
		if err != nil {
			return err
		}
		styles = []style.Style{s}
	}

	t := newTable(cmd, "TRADING STYLES")
	header := table.Row{"Style", "Tech", "On-chain", "Macro", "F&G", "Calendar", "Regime", "Volatility", "Horizon", "Event window"}
	if styleEventIn >= 0 {
		header = append(header, "Event in window")
	}
	t.AppendHeader(header)
	for _, s := range styles {
		p, err := style.For(s)
		if err != nil {
			return err
		}
		row := table.Row{
			string(p.Style),
			pct(p.Composite.Technical),
			pct(p.Composite.OnChain),
			pct(p.Composite.Macro),
			pct(p.Composite.FearGreed),
			pct(p.Orchestrator.Calendar),
			pct(p.Orchestrator.Regime),
			pct(p.Orchestrator.Volatility),
			p.RangeHorizon,
			fmt.Sprintf("%dh", p.EventWindowHours),
		}
		if styleEventIn >= 0 {
			row = append(row, yesNo(p.WithinEventWindow(styleEventIn)))
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

func pct(w float64) string {
	return fmt.Sprintf("%.0f%%", w*100)
}
