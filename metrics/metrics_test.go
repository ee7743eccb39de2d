package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	t.Parallel()

	r := New(prometheus.NewRegistry())

	r.Sizing(true)
	r.Sizing(false)
	r.Sizing(false)
	r.Verdict(false)
	r.Violation("DAILY_LOSS_LIMIT")
	r.Event("warning_70")
	r.Conflict()
	r.Multiplier(0.5)
	r.LossLimitUsed("u1", 72.5)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.sizings.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.sizings.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.verdicts.WithLabelValues("blocked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.violations.WithLabelValues("DAILY_LOSS_LIMIT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.events.WithLabelValues("warning_70")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.conflicts))
	assert.Equal(t, 72.5, testutil.ToFloat64(r.lossLimitUsed.WithLabelValues("u1")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.multipliers))
}

func TestNilRecorderIsNoop(t *testing.T) {
	t.Parallel()

	var r *Recorder
	assert.NotPanics(t, func() {
		r.Sizing(true)
		r.Verdict(true)
		r.Violation("X")
		r.Event("warning_90")
		r.Conflict()
		r.Multiplier(1)
		r.LossLimitUsed("u", 1)
	})
}
