package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/itsramaa/trading-journal/engine"
	"github.com/itsramaa/trading-journal/journal"
	"github.com/itsramaa/trading-journal/risk"
	"github.com/itsramaa/trading-journal/tracker"
)

// app holds the stores and services a command needs.
type app struct {
	db      *journal.SQLite
	redis   *journal.Redis
	snaps   journal.SnapshotStore
	tracker *tracker.Tracker
	engine  *engine.Engine
}

func openApp(ctx context.Context) (*app, error) {
	db, err := journal.NewSQLite(cfg.Store.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	a := &app{db: db, snaps: db}

	if cfg.Store.Driver == "redis" {
		r := cfg.Store.Redis
		a.redis, err = journal.DialRedis(ctx, r.Addr, r.Password, r.DB, r.Prefix)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		a.snaps = a.redis
	}

	a.tracker = tracker.New(a.snaps, configProfiles{db}, logger, recorder)
	a.tracker.StartingBalance = cfg.Account.Balance
	a.engine = engine.New(a.tracker, logger, recorder)
	return a, nil
}

func (a *app) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}

// configProfiles falls back to the configured profile when the user has not
// stored one.
type configProfiles struct {
	store journal.ProfileStore
}

func (c configProfiles) ActiveProfile(ctx context.Context, userID string) (risk.RiskProfile, error) {
	p, err := c.store.ActiveProfile(ctx, userID)
	if errors.Is(err, journal.ErrNotFound) {
		return cfg.Profile.RiskProfile(userID), nil
	}
	return p, err
}

func withApp(fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, cmd, a, args)
	}
}

func newTable(cmd *cobra.Command, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
