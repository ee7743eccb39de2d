package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/itsramaa/trading-journal/risk"
)

const snapshotColumns = `user_id, snapshot_date, starting_balance, current_pnl, loss_limit_used_percent,
	positions_open, capital_deployed_percent, trading_allowed, sealed, version, updated_at`

func scanSnapshot(r rowScanner) (risk.DailySnapshot, error) {
	var s risk.DailySnapshot
	err := r.Scan(
		&s.UserID,
		&s.SnapshotDate,
		&s.StartingBalance,
		&s.CurrentPnl,
		&s.LossLimitUsedPercent,
		&s.PositionsOpen,
		&s.CapitalDeployedPercent,
		&s.TradingAllowed,
		&s.Sealed,
		&s.Version,
		&s.UpdatedAt,
	)
	return s, err
}

func (j *SQLite) GetSnapshot(ctx context.Context, userID, date string) (risk.DailySnapshot, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM daily_risk_snapshots
		WHERE user_id = ? AND snapshot_date = ?`, userID, date)

	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return risk.DailySnapshot{}, fmt.Errorf("snapshot %s/%s: %w", userID, date, ErrNotFound)
		}
		return risk.DailySnapshot{}, err
	}
	return s, nil
}

// LatestSnapshotBefore returns the most recent snapshot strictly before date.
func (j *SQLite) LatestSnapshotBefore(ctx context.Context, userID, date string) (risk.DailySnapshot, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM daily_risk_snapshots
		WHERE user_id = ? AND snapshot_date < ?
		ORDER BY snapshot_date DESC
		LIMIT 1`, userID, date)

	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return risk.DailySnapshot{}, fmt.Errorf("snapshot %s before %s: %w", userID, date, ErrNotFound)
		}
		return risk.DailySnapshot{}, err
	}
	return s, nil
}

// CreateSnapshot inserts a new day at version 1. If the day already exists
// it returns ErrConflict; the caller should re-read.
func (j *SQLite) CreateSnapshot(ctx context.Context, s risk.DailySnapshot) (risk.DailySnapshot, error) {
	s.Version = 1
	s.UpdatedAt = j.now().UTC()

	res, err := j.db.ExecContext(ctx, `
		INSERT INTO daily_risk_snapshots
		(`+snapshotColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, snapshot_date) DO NOTHING`,
		s.UserID, s.SnapshotDate, s.StartingBalance, s.CurrentPnl, s.LossLimitUsedPercent,
		s.PositionsOpen, s.CapitalDeployedPercent, s.TradingAllowed, s.Sealed, s.Version, s.UpdatedAt,
	)
	if err != nil {
		return risk.DailySnapshot{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return risk.DailySnapshot{}, err
	}
	if n == 0 {
		return risk.DailySnapshot{}, fmt.Errorf("create snapshot %s/%s: %w", s.UserID, s.SnapshotDate, ErrConflict)
	}
	return s, nil
}

// UpdateSnapshot writes s if the stored version still equals s.Version and
// the day is not sealed. The returned snapshot carries the new version.
func (j *SQLite) UpdateSnapshot(ctx context.Context, s risk.DailySnapshot) (risk.DailySnapshot, error) {
	now := j.now().UTC()
	res, err := j.db.ExecContext(ctx, `
		UPDATE daily_risk_snapshots
		SET starting_balance = ?, current_pnl = ?, loss_limit_used_percent = ?,
		    positions_open = ?, capital_deployed_percent = ?, trading_allowed = ?,
		    version = version + 1, updated_at = ?
		WHERE user_id = ? AND snapshot_date = ? AND version = ? AND sealed = 0`,
		s.StartingBalance, s.CurrentPnl, s.LossLimitUsedPercent,
		s.PositionsOpen, s.CapitalDeployedPercent, s.TradingAllowed,
		now, s.UserID, s.SnapshotDate, s.Version,
	)
	if err != nil {
		return risk.DailySnapshot{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return risk.DailySnapshot{}, err
	}
	if n == 0 {
		return risk.DailySnapshot{}, j.writeFailure(ctx, s)
	}

	s.Version++
	s.UpdatedAt = now
	return s, nil
}

// writeFailure explains why a versioned write matched no row.
func (j *SQLite) writeFailure(ctx context.Context, s risk.DailySnapshot) error {
	cur, err := j.GetSnapshot(ctx, s.UserID, s.SnapshotDate)
	if err != nil {
		return err
	}
	if cur.Sealed {
		return fmt.Errorf("update snapshot %s/%s: %w", s.UserID, s.SnapshotDate, ErrSealed)
	}
	return fmt.Errorf("update snapshot %s/%s at version %d (stored %d): %w",
		s.UserID, s.SnapshotDate, s.Version, cur.Version, ErrConflict)
}

// SealSnapshot freezes a finished day. Sealing twice is a no-op.
func (j *SQLite) SealSnapshot(ctx context.Context, userID, date string) error {
	res, err := j.db.ExecContext(ctx, `
		UPDATE daily_risk_snapshots
		SET sealed = 1, version = version + 1, updated_at = ?
		WHERE user_id = ? AND snapshot_date = ? AND sealed = 0`,
		j.now().UTC(), userID, date)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either already sealed or missing.
		_, err := j.GetSnapshot(ctx, userID, date)
		return err
	}
	return nil
}

// ListSnapshots returns the user's snapshots with from <= date <= to, oldest first.
func (j *SQLite) ListSnapshots(ctx context.Context, userID, from, to string) ([]risk.DailySnapshot, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM daily_risk_snapshots
		WHERE user_id = ? AND snapshot_date >= ? AND snapshot_date <= ?
		ORDER BY snapshot_date ASC`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []risk.DailySnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
