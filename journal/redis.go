package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/itsramaa/trading-journal/id"
	"github.com/itsramaa/trading-journal/risk"
)

// Redis keeps snapshots and events in Redis. Keys:
//
//	{prefix}snap:{user}:{date}   snapshot JSON
//	{prefix}snapdates:{user}     zset of dates, all score 0 (lex ordered)
//	{prefix}events:{user}        hash {date}|{type} -> event JSON
type Redis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix, now: time.Now}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr, password string, db int, prefix string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedis(client, prefix), nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) snapKey(userID, date string) string {
	return r.prefix + "snap:" + userID + ":" + date
}

func (r *Redis) datesKey(userID string) string {
	return r.prefix + "snapdates:" + userID
}

func (r *Redis) eventsKey(userID string) string {
	return r.prefix + "events:" + userID
}

func (r *Redis) GetSnapshot(ctx context.Context, userID, date string) (risk.DailySnapshot, error) {
	return r.getSnapshot(ctx, r.client, userID, date)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *Redis) getSnapshot(ctx context.Context, c stringGetter, userID, date string) (risk.DailySnapshot, error) {
	raw, err := c.Get(ctx, r.snapKey(userID, date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return risk.DailySnapshot{}, fmt.Errorf("snapshot %s/%s: %w", userID, date, ErrNotFound)
		}
		return risk.DailySnapshot{}, err
	}
	var s risk.DailySnapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return risk.DailySnapshot{}, fmt.Errorf("decode snapshot %s/%s: %w", userID, date, err)
	}
	return s, nil
}

func (r *Redis) LatestSnapshotBefore(ctx context.Context, userID, date string) (risk.DailySnapshot, error) {
	dates, err := r.client.ZRevRangeByLex(ctx, r.datesKey(userID), &redis.ZRangeBy{
		Max:   "(" + date,
		Min:   "-",
		Count: 1,
	}).Result()
	if err != nil {
		return risk.DailySnapshot{}, err
	}
	if len(dates) == 0 {
		return risk.DailySnapshot{}, fmt.Errorf("snapshot %s before %s: %w", userID, date, ErrNotFound)
	}
	return r.GetSnapshot(ctx, userID, dates[0])
}

func (r *Redis) CreateSnapshot(ctx context.Context, s risk.DailySnapshot) (risk.DailySnapshot, error) {
	s.Version = 1
	s.UpdatedAt = r.now().UTC()
	data, err := json.Marshal(s)
	if err != nil {
		return risk.DailySnapshot{}, err
	}

	ok, err := r.client.SetNX(ctx, r.snapKey(s.UserID, s.SnapshotDate), data, 0).Result()
	if err != nil {
		return risk.DailySnapshot{}, err
	}
	if !ok {
		return risk.DailySnapshot{}, fmt.Errorf("create snapshot %s/%s: %w", s.UserID, s.SnapshotDate, ErrConflict)
	}
	if err := r.client.ZAdd(ctx, r.datesKey(s.UserID), redis.Z{Score: 0, Member: s.SnapshotDate}).Err(); err != nil {
		return risk.DailySnapshot{}, err
	}
	return s, nil
}

// UpdateSnapshot performs a WATCH/MULTI compare-and-set on the version.
func (r *Redis) UpdateSnapshot(ctx context.Context, s risk.DailySnapshot) (risk.DailySnapshot, error) {
	key := r.snapKey(s.UserID, s.SnapshotDate)
	var out risk.DailySnapshot

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := r.getSnapshot(ctx, tx, s.UserID, s.SnapshotDate)
		if err != nil {
			return err
		}
		if cur.Sealed {
			return fmt.Errorf("update snapshot %s/%s: %w", s.UserID, s.SnapshotDate, ErrSealed)
		}
		if cur.Version != s.Version {
			return fmt.Errorf("update snapshot %s/%s at version %d (stored %d): %w",
				s.UserID, s.SnapshotDate, s.Version, cur.Version, ErrConflict)
		}

		next := s
		next.Sealed = false
		next.Version = cur.Version + 1
		next.UpdatedAt = r.now().UTC()
		data, err := json.Marshal(next)
		if err != nil {
			return err
		}
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		}); err != nil {
			return err
		}
		out = next
		return nil
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return risk.DailySnapshot{}, fmt.Errorf("update snapshot %s/%s: %w", s.UserID, s.SnapshotDate, ErrConflict)
	}
	if err != nil {
		return risk.DailySnapshot{}, err
	}
	return out, nil
}

func (r *Redis) SealSnapshot(ctx context.Context, userID, date string) error {
	key := r.snapKey(userID, date)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := r.getSnapshot(ctx, tx, userID, date)
		if err != nil {
			return err
		}
		if cur.Sealed {
			return nil
		}
		cur.Sealed = true
		cur.Version++
		cur.UpdatedAt = r.now().UTC()
		data, err := json.Marshal(cur)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("seal snapshot %s/%s: %w", userID, date, ErrConflict)
	}
	return err
}

func (r *Redis) ListSnapshots(ctx context.Context, userID, from, to string) ([]risk.DailySnapshot, error) {
	dates, err := r.client.ZRangeByLex(ctx, r.datesKey(userID), &redis.ZRangeBy{
		Min: "[" + from,
		Max: "[" + to,
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, r.snapKey(userID, d))
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]risk.DailySnapshot, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var s risk.DailySnapshot
		if err := json.Unmarshal([]byte(str), &s); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", keys[i], err)
		}
		out = append(out, s)
	}
	return out, nil
}

type redisEvent struct {
	risk.RiskEvent
	Meta json.RawMessage `json:"metadata"`
}

// AppendEvent uses HSETNX on {date}|{type} so duplicates are dropped atomically.
func (r *Redis) AppendEvent(ctx context.Context, ev risk.RiskEvent) (bool, error) {
	if !ev.Type.Valid() {
		return false, fmt.Errorf("unknown event type %q", ev.Type)
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = r.now().UTC()
	}
	if ev.ID == "" {
		ev.ID = id.NewAt(ev.CreatedAt)
	}
	meta, err := risk.MarshalMetadata(ev.Metadata)
	if err != nil {
		return false, fmt.Errorf("encode metadata: %w", err)
	}
	data, err := json.Marshal(redisEvent{RiskEvent: ev, Meta: meta})
	if err != nil {
		return false, err
	}
	return r.client.HSetNX(ctx, r.eventsKey(ev.UserID), ev.EventDate+"|"+string(ev.Type), data).Result()
}

func (r *Redis) ListEvents(ctx context.Context, userID, from, to string) ([]risk.RiskEvent, error) {
	all, err := r.client.HGetAll(ctx, r.eventsKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	var out []risk.RiskEvent
	for field, raw := range all {
		var re redisEvent
		if err := json.Unmarshal([]byte(raw), &re); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", field, err)
		}
		if re.EventDate < from || re.EventDate > to {
			continue
		}
		ev := re.RiskEvent
		if ev.Metadata, err = risk.UnmarshalMetadata(re.Meta); err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		out = append(out, ev)
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].EventDate != out[b].EventDate {
			return out[a].EventDate < out[b].EventDate
		}
		return out[a].ID < out[b].ID
	})
	return out, nil
}
