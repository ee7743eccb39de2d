package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const tradeColumns = `trade_id, user_id, instrument, side, units, entry_price, stop_price, exit_price,
	open_time, close_time, risk_amount, realized_pl, reason`

func scanTrade(r rowScanner) (TradeRecord, error) {
	var rec TradeRecord
	err := r.Scan(
		&rec.TradeID,
		&rec.UserID,
		&rec.Instrument,
		&rec.Side,
		&rec.Units,
		&rec.EntryPrice,
		&rec.StopPrice,
		&rec.ExitPrice,
		&rec.OpenTime,
		&rec.CloseTime,
		&rec.RiskAmount,
		&rec.RealizedPL,
		&rec.Reason,
	)
	return rec, err
}

func (j *SQLite) RecordTrade(ctx context.Context, t TradeRecord) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades
		(`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.UserID, t.Instrument, t.Side, t.Units, t.EntryPrice, t.StopPrice,
		t.ExitPrice, t.OpenTime.UTC(), t.CloseTime.UTC(), t.RiskAmount, t.RealizedPL, t.Reason,
	)
	return err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesClosedBetween returns the user's trades whose close_time is within [start, end).
func (j *SQLite) ListTradesClosedBetween(ctx context.Context, userID string, start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE user_id = ? AND close_time >= ? AND close_time < ?
		ORDER BY close_time ASC`, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TradeStats summarizes a set of closed trades.
type TradeStats struct {
	Trades       int
	Wins         int
	Losses       int
	NetPL        float64
	GrossProfit  float64
	GrossLoss    float64
	WinRate      float64
	ProfitFactor float64
	AvgR         float64
}

func Summarize(trades []TradeRecord) TradeStats {
	var (
		s    TradeStats
		rSum float64
		rN   int
	)
	for _, t := range trades {
		s.Trades++
		s.NetPL += t.RealizedPL
		switch {
		case t.RealizedPL > 0:
			s.Wins++
			s.GrossProfit += t.RealizedPL
		case t.RealizedPL < 0:
			s.Losses++
			s.GrossLoss += -t.RealizedPL
		}
		if t.RiskAmount > 0 {
			rSum += t.RMultiple()
			rN++
		}
	}
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades)
	}
	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}
	if rN > 0 {
		s.AvgR = rSum / float64(rN)
	}
	return s
}
