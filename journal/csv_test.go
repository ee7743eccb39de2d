package journal

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsramaa/trading-journal/risk"
)

func TestWriteSnapshotsCSV(t *testing.T) {
	t.Parallel()

	s := risk.NewDailySnapshot("u1", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 10000)
	s.CurrentPnl = -125.5
	s.Recompute(5)
	s.PositionsOpen = 2

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshotsCSV(&buf, []risk.DailySnapshot{s}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, snapshotCSVHeader, rows[0])
	assert.Equal(t, []string{"2024-01-02", "10000.00", "-125.50", "25.10", "2", "0.00", "true", "false"}, rows[1])
}

func TestWriteEventsCSV(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, WriteEventsCSV(&buf, []risk.RiskEvent{{
		Type:           risk.EventLimitReached,
		EventDate:      "2024-01-02",
		TriggerValue:   104,
		ThresholdValue: 100,
		Message:        "limit, reached",
		CreatedAt:      at,
	}}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, eventCSVHeader, rows[0])
	assert.Equal(t, []string{"2024-01-02", "limit_reached", "104.00", "100.00", "limit, reached", "2024-01-02T03:04:05Z"}, rows[1])
}
