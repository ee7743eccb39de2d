package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday", time.Date(2024, 6, 3, 23, 0, 0, 0, time.UTC), "2024-06-03"},
		{"wednesday", time.Date(2024, 6, 5, 1, 0, 0, 0, time.UTC), "2024-06-03"},
		{"sunday", time.Date(2024, 6, 9, 12, 0, 0, 0, time.UTC), "2024-06-03"},
		{"across month", time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC), "2024-07-01"},
		{"across year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2024-12-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.in).Format("2006-01-02"))
		})
	}
}

func TestWeeklyPnl(t *testing.T) {
	t.Parallel()

	tr, _ := newTracker(t)
	ctx := context.Background()

	sunday := monday.Add(-24 * time.Hour)
	_, err := tr.ApplyPnl(ctx, "u1", sunday, 500)
	require.NoError(t, err)
	_, err = tr.ApplyPnl(ctx, "u1", monday, -300)
	require.NoError(t, err)
	_, err = tr.ApplyPnl(ctx, "u1", monday.Add(24*time.Hour), -450)
	require.NoError(t, err)

	w, err := tr.WeeklyPnl(ctx, "u1", monday.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", w.From)
	assert.Equal(t, "2024-06-05", w.To)
	assert.Equal(t, 2, w.Days)
	assert.Equal(t, -750.0, w.Pnl)
	assert.Equal(t, 10500.0, w.StartingBalance)
	assert.InDelta(t, 750.0/10500.0*100, w.DrawdownPercent(), 1e-9)
}

func TestWeekDrawdownPercent(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Week{Pnl: 100, StartingBalance: 1000}.DrawdownPercent())
	assert.Zero(t, Week{Pnl: -100}.DrawdownPercent())
	assert.Equal(t, 10.0, Week{Pnl: -100, StartingBalance: 1000}.DrawdownPercent())
}
