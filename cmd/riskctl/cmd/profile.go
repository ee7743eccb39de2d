package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/itsramaa/trading-journal/journal"
	"github.com/itsramaa/trading-journal/risk"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the user's risk profile",
	Long: `Manage risk profiles stored in the journal. A user has at most one
active profile; old profiles are deactivated, never deleted.

Subcommands:
  show       - Show the active profile
  init       - Create the active profile from the configured defaults
  set        - Edit fields of the active profile
  deactivate - Retire the active profile
  history    - List every profile the user has had

Examples:
  riskctl profile init
  riskctl profile set --max-daily-loss 3 --max-positions 5`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active profile",
	Args:  cobra.NoArgs,
	RunE:  withApp(runProfileShow),
}

var profileInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the active profile from configuration",
	Args:  cobra.NoArgs,
	RunE:  withApp(runProfileInit),
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Edit the active profile",
	Args:  cobra.NoArgs,
	RunE:  withApp(runProfileSet),
}

var profileDeactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Deactivate the active profile",
	Args:  cobra.NoArgs,
	RunE:  withApp(runProfileDeactivate),
}

var profileHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List all profiles, newest first",
	Args:  cobra.NoArgs,
	RunE:  withApp(runProfileHistory),
}

var profileEdit risk.RiskProfile

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileInitCmd, profileSetCmd, profileDeactivateCmd, profileHistoryCmd)

	f := profileSetCmd.Flags()
	f.Float64Var(&profileEdit.RiskPerTradePercent, "risk-per-trade", 0, "risk per trade, percent")
	f.Float64Var(&profileEdit.MaxDailyLossPercent, "max-daily-loss", 0, "max daily loss, percent of starting balance")
	f.Float64Var(&profileEdit.MaxWeeklyDrawdownPercent, "max-weekly-drawdown", 0, "max weekly drawdown, percent")
	f.Float64Var(&profileEdit.MaxPositionSizePercent, "max-position-size", 0, "max capital deployed per position, percent")
	f.Float64Var(&profileEdit.MaxCorrelatedExposure, "max-correlated", 0, "max correlated exposure, 0-1")
	f.IntVar(&profileEdit.MaxConcurrentPositions, "max-positions", 0, "max concurrent positions")
}

func runProfileShow(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	p, err := a.db.ActiveProfile(ctx, cfg.Account.UserID)
	if errors.Is(err, journal.ErrNotFound) {
		fmt.Fprintf(cmd.OutOrStdout(), "No stored profile for %s; using configured defaults.\n", cfg.Account.UserID)
		p = cfg.Profile.RiskProfile(cfg.Account.UserID)
	} else if err != nil {
		return err
	}
	renderProfiles(cmd, "RISK PROFILE", []risk.RiskProfile{p})
	return nil
}

func runProfileInit(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	p, err := a.db.CreateProfile(ctx, cfg.Profile.RiskProfile(cfg.Account.UserID))
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	logger.Info().Str("user", p.UserID).Int64("profile", p.ID).Msg("profile created")
	renderProfiles(cmd, "RISK PROFILE", []risk.RiskProfile{p})
	return nil
}

func runProfileSet(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	p, err := a.db.ActiveProfile(ctx, cfg.Account.UserID)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("risk-per-trade") {
		p.RiskPerTradePercent = profileEdit.RiskPerTradePercent
	}
	if f.Changed("max-daily-loss") {
		p.MaxDailyLossPercent = profileEdit.MaxDailyLossPercent
	}
	if f.Changed("max-weekly-drawdown") {
		p.MaxWeeklyDrawdownPercent = profileEdit.MaxWeeklyDrawdownPercent
	}
	if f.Changed("max-position-size") {
		p.MaxPositionSizePercent = profileEdit.MaxPositionSizePercent
	}
	if f.Changed("max-correlated") {
		p.MaxCorrelatedExposure = profileEdit.MaxCorrelatedExposure
	}
	if f.Changed("max-positions") {
		p.MaxConcurrentPositions = profileEdit.MaxConcurrentPositions
	}

	p, err = a.db.UpdateProfile(ctx, p)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	renderProfiles(cmd, "RISK PROFILE", []risk.RiskProfile{p})
	return nil
}

func runProfileDeactivate(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	if err := a.db.DeactivateProfile(ctx, cfg.Account.UserID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile for %s deactivated.\n", cfg.Account.UserID)
	return nil
}

func runProfileHistory(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	ps, err := a.db.ProfileHistory(ctx, cfg.Account.UserID)
	if err != nil {
		return err
	}
	renderProfiles(cmd, "PROFILE HISTORY", ps)
	return nil
}

func renderProfiles(cmd *cobra.Command, title string, ps []risk.RiskProfile) {
	t := newTable(cmd, title)
	t.AppendHeader(table.Row{"ID", "Active", "Risk/trade", "Daily loss", "Weekly DD", "Position", "Correlated", "Positions", "Updated"})
	for _, p := range ps {
		updated := ""
		if !p.UpdatedAt.IsZero() {
			updated = p.UpdatedAt.Format("2006-01-02 15:04")
		}
		t.AppendRow(table.Row{
			p.ID,
			yesNo(p.IsActive),
			fmt.Sprintf("%.2f%%", p.RiskPerTradePercent),
			fmt.Sprintf("%.2f%%", p.MaxDailyLossPercent),
			fmt.Sprintf("%.2f%%", p.MaxWeeklyDrawdownPercent),
			fmt.Sprintf("%.2f%%", p.MaxPositionSizePercent),
			fmt.Sprintf("%.0f%%", p.MaxCorrelatedExposure*100),
			p.MaxConcurrentPositions,
			updated,
		})
	}
	t.Render()
}
