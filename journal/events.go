package journal

import (
	"context"
	"fmt"

	"github.com/itsramaa/trading-journal/id"
	"github.com/itsramaa/trading-journal/risk"
)

// AppendEvent inserts ev unless an event with the same (user, type, date)
// already exists. It reports whether a row was written; duplicates are not errors.
func (j *SQLite) AppendEvent(ctx context.Context, ev risk.RiskEvent) (bool, error) {
	if !ev.Type.Valid() {
		return false, fmt.Errorf("unknown event type %q", ev.Type)
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = j.now().UTC()
	}
	if ev.ID == "" {
		ev.ID = id.NewAt(ev.CreatedAt)
	}
	meta, err := risk.MarshalMetadata(ev.Metadata)
	if err != nil {
		return false, fmt.Errorf("encode metadata: %w", err)
	}

	res, err := j.db.ExecContext(ctx, `
		INSERT INTO risk_events
		(id, user_id, event_type, event_date, trigger_value, threshold_value, message, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, event_type, event_date) DO NOTHING`,
		ev.ID, ev.UserID, string(ev.Type), ev.EventDate, ev.TriggerValue, ev.ThresholdValue,
		ev.Message, string(meta), ev.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListEvents returns events with from <= event_date <= to in insertion order.
func (j *SQLite) ListEvents(ctx context.Context, userID, from, to string) ([]risk.RiskEvent, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, user_id, event_type, event_date, trigger_value, threshold_value, message, metadata, created_at
		FROM risk_events
		WHERE user_id = ? AND event_date >= ? AND event_date <= ?
		ORDER BY event_date ASC, id ASC`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []risk.RiskEvent
	for rows.Next() {
		var (
			ev   risk.RiskEvent
			typ  string
			meta string
		)
		if err := rows.Scan(
			&ev.ID,
			&ev.UserID,
			&typ,
			&ev.EventDate,
			&ev.TriggerValue,
			&ev.ThresholdValue,
			&ev.Message,
			&meta,
			&ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		ev.Type = risk.EventType(typ)
		if ev.Metadata, err = risk.UnmarshalMetadata([]byte(meta)); err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
