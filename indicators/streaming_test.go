package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var closes = []float64{102, 105, 106, 108, 110, 111, 113, 114, 116, 118, 112, 109}

func TestRealizedVolStreaming(t *testing.T) {
	t.Run("not ready before warmup", func(t *testing.T) {
		v := NewRealizedVol(5, PeriodsDaily24x7)
		assert.Equal(t, "RVOL(5)", v.Name())
		assert.Equal(t, 6, v.Warmup())

		for _, c := range closes[:5] {
			v.Update(c)
			assert.False(t, v.Ready())
			assert.Zero(t, v.Value())
		}
		v.Update(closes[5])
		assert.True(t, v.Ready())
		assert.Greater(t, v.Value(), 0.0)
	})

	t.Run("reset", func(t *testing.T) {
		v := NewRealizedVol(3, PeriodsDaily24x7)
		for _, c := range closes {
			v.Update(c)
		}
		assert.True(t, v.Ready())
		v.Reset()
		assert.False(t, v.Ready())
		assert.Zero(t, v.Value())
	})

	t.Run("ignores bad prices", func(t *testing.T) {
		v := NewRealizedVol(2, PeriodsDaily24x7)
		v.Update(100)
		v.Update(0)
		v.Update(-5)
		v.Update(101)
		assert.False(t, v.Ready())
		v.Update(99)
		assert.True(t, v.Ready())
	})
}

func TestStreamingVsBatchConsistency(t *testing.T) {
	for _, window := range []int{3, 5, 11} {
		v := NewRealizedVol(window, PeriodsDaily24x7)
		for _, c := range closes {
			v.Update(c)
		}
		batch, err := AnnualizedVolatility(closes[len(closes)-window-1:], PeriodsDaily24x7)
		assert.NoError(t, err)
		assert.InDelta(t, batch, v.Value(), 1e-9, "window %d", window)
	}
}
