package journal

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsramaa/trading-journal/id"
	"github.com/itsramaa/trading-journal/risk"
)

// setupRedis connects to a local Redis and skips when none is running.
func setupRedis(t *testing.T) *Redis {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		t.Skipf("skipping test; redis not available: %v", err)
	}

	prefix := "tj-test:" + id.New() + ":"
	r := NewRedis(client, prefix)
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		_ = client.Close()
	})
	return r
}

func TestRedisSnapshotVersioning(t *testing.T) {
	r := setupRedis(t)
	ctx := context.Background()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	s, err := r.CreateSnapshot(ctx, risk.NewDailySnapshot("u1", day, 10000))
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.Version)

	_, err = r.CreateSnapshot(ctx, risk.NewDailySnapshot("u1", day, 1))
	assert.ErrorIs(t, err, ErrConflict)

	stale := s
	s.CurrentPnl = -250
	s.Recompute(5)
	s, err = r.UpdateSnapshot(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.Version)

	_, err = r.UpdateSnapshot(ctx, stale)
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, r.SealSnapshot(ctx, "u1", "2024-06-03"))
	got, err := r.GetSnapshot(ctx, "u1", "2024-06-03")
	require.NoError(t, err)
	assert.True(t, got.Sealed)
	assert.InDelta(t, 50.0, got.LossLimitUsedPercent, 1e-9)

	_, err = r.UpdateSnapshot(ctx, got)
	assert.ErrorIs(t, err, ErrSealed)
}

func TestRedisSnapshotQueries(t *testing.T) {
	r := setupRedis(t)
	ctx := context.Background()

	for _, d := range []int{3, 4, 6} {
		_, err := r.CreateSnapshot(ctx, risk.NewDailySnapshot("u1", time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC), 1000))
		require.NoError(t, err)
	}

	prev, err := r.LatestSnapshotBefore(ctx, "u1", "2024-06-06")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-04", prev.SnapshotDate)

	_, err = r.LatestSnapshotBefore(ctx, "u1", "2024-06-03")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := r.ListSnapshots(ctx, "u1", "2024-06-04", "2024-06-06")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-06-06", list[1].SnapshotDate)
}

func TestRedisAppendEventIdempotent(t *testing.T) {
	r := setupRedis(t)
	ctx := context.Background()

	ev := risk.RiskEvent{
		UserID:    "u1",
		Type:      risk.EventPositionLimitWarning,
		EventDate: "2024-06-03",
		Message:   "max concurrent positions reached",
		Metadata:  risk.PositionLimitMeta{OpenPositions: 3, MaxConcurrentPositions: 3},
	}

	ok, err := r.AppendEvent(ctx, ev)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.AppendEvent(ctx, ev)
	require.NoError(t, err)
	assert.False(t, ok)

	events, err := r.ListEvents(ctx, "u1", "2024-06-01", "2024-06-30")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, risk.PositionLimitMeta{OpenPositions: 3, MaxConcurrentPositions: 3}, events[0].Metadata)
}
