package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/itsramaa/trading-journal/risk"
)

type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (creating if needed) the journal database at path and
// applies the schema.
func NewSQLite(path string) (*SQLite, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// Single writer; transactions must use their own handle.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

const profileColumns = `id, user_id, risk_per_trade_percent, max_daily_loss_percent,
	max_weekly_drawdown_percent, max_position_size_percent, max_correlated_exposure,
	max_concurrent_positions, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(r rowScanner) (risk.RiskProfile, error) {
	var p risk.RiskProfile
	err := r.Scan(
		&p.ID,
		&p.UserID,
		&p.RiskPerTradePercent,
		&p.MaxDailyLossPercent,
		&p.MaxWeeklyDrawdownPercent,
		&p.MaxPositionSizePercent,
		&p.MaxCorrelatedExposure,
		&p.MaxConcurrentPositions,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// ActiveProfile returns the user's active profile or ErrNotFound.
func (j *SQLite) ActiveProfile(ctx context.Context, userID string) (risk.RiskProfile, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM risk_profiles
		WHERE user_id = ? AND is_active = 1`, userID)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return risk.RiskProfile{}, fmt.Errorf("active profile for %q: %w", userID, ErrNotFound)
		}
		return risk.RiskProfile{}, err
	}
	return p, nil
}

// CreateProfile inserts p as the user's active profile. It fails with
// ErrActiveProfileExists if the user already has one.
func (j *SQLite) CreateProfile(ctx context.Context, p risk.RiskProfile) (risk.RiskProfile, error) {
	if p.UserID == "" {
		return risk.RiskProfile{}, errors.New("profile user_id is required")
	}
	if err := p.Validate(); err != nil {
		return risk.RiskProfile{}, err
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return risk.RiskProfile{}, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM risk_profiles WHERE user_id = ? AND is_active = 1`, p.UserID,
	).Scan(&n); err != nil {
		return risk.RiskProfile{}, err
	}
	if n > 0 {
		return risk.RiskProfile{}, ErrActiveProfileExists
	}

	now := j.now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO risk_profiles
		(user_id, risk_per_trade_percent, max_daily_loss_percent, max_weekly_drawdown_percent,
		 max_position_size_percent, max_correlated_exposure, max_concurrent_positions,
		 is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		p.UserID, p.RiskPerTradePercent, p.MaxDailyLossPercent, p.MaxWeeklyDrawdownPercent,
		p.MaxPositionSizePercent, p.MaxCorrelatedExposure, p.MaxConcurrentPositions,
		now, now,
	)
	if err != nil {
		return risk.RiskProfile{}, err
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return risk.RiskProfile{}, err
	}
	if err := tx.Commit(); err != nil {
		return risk.RiskProfile{}, err
	}

	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

// UpdateProfile applies a user edit to the active profile.
func (j *SQLite) UpdateProfile(ctx context.Context, p risk.RiskProfile) (risk.RiskProfile, error) {
	if err := p.Validate(); err != nil {
		return risk.RiskProfile{}, err
	}

	now := j.now().UTC()
	res, err := j.db.ExecContext(ctx, `
		UPDATE risk_profiles
		SET risk_per_trade_percent = ?, max_daily_loss_percent = ?, max_weekly_drawdown_percent = ?,
		    max_position_size_percent = ?, max_correlated_exposure = ?, max_concurrent_positions = ?,
		    updated_at = ?
		WHERE user_id = ? AND is_active = 1`,
		p.RiskPerTradePercent, p.MaxDailyLossPercent, p.MaxWeeklyDrawdownPercent,
		p.MaxPositionSizePercent, p.MaxCorrelatedExposure, p.MaxConcurrentPositions,
		now, p.UserID,
	)
	if err != nil {
		return risk.RiskProfile{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return risk.RiskProfile{}, err
	} else if n == 0 {
		return risk.RiskProfile{}, fmt.Errorf("active profile for %q: %w", p.UserID, ErrNotFound)
	}
	return j.ActiveProfile(ctx, p.UserID)
}

// DeactivateProfile retires the user's active profile. Rows are never deleted.
func (j *SQLite) DeactivateProfile(ctx context.Context, userID string) error {
	res, err := j.db.ExecContext(ctx, `
		UPDATE risk_profiles SET is_active = 0, updated_at = ?
		WHERE user_id = ? AND is_active = 1`, j.now().UTC(), userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("active profile for %q: %w", userID, ErrNotFound)
	}
	return nil
}

// ProfileHistory returns every profile the user has had, newest first.
func (j *SQLite) ProfileHistory(ctx context.Context, userID string) ([]risk.RiskProfile, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM risk_profiles
		WHERE user_id = ?
		ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []risk.RiskProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
