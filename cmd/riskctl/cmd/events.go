package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/itsramaa/trading-journal/risk"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List risk events",
	Long: `List the risk event log: loss warnings, trading disabled/enabled,
position limit and correlation warnings.

Example:
  riskctl events --from 2024-06-01 --to 2024-06-07`,
	Args: cobra.NoArgs,
	RunE: withApp(runEvents),
}

var (
	eventsFrom string
	eventsTo   string
)

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().StringVar(&eventsFrom, "from", "", "first day, YYYY-MM-DD (default: 7 days ago)")
	eventsCmd.Flags().StringVar(&eventsTo, "to", "", "last day, YYYY-MM-DD (default: today)")
}

func runEvents(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	now := time.Now().UTC()
	from, to := eventsFrom, eventsTo
	if to == "" {
		to = now.Format(risk.DateLayout)
	}
	if from == "" {
		from = now.AddDate(0, 0, -7).Format(risk.DateLayout)
	}

	events, err := a.snaps.ListEvents(ctx, cfg.Account.UserID, from, to)
	if err != nil {
		return err
	}

	t := newTable(cmd, "RISK EVENTS")
	t.AppendHeader(table.Row{"Date", "Type", "Trigger", "Threshold", "Message"})
	for _, ev := range events {
		t.AppendRow(table.Row{
			ev.EventDate,
			string(ev.Type),
			fmt.Sprintf("%.2f", ev.TriggerValue),
			fmt.Sprintf("%.2f", ev.ThresholdValue),
			ev.Message,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(events)})
	t.Render()
	return nil
}
