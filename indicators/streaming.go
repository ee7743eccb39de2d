package indicators

import (
	"fmt"
	"math"
)

// RealizedVol is a streaming annualized realized volatility over the last
// window log returns, in percent.
type RealizedVol struct {
	window         int
	periodsPerYear int
	last           float64
	returns        []float64
}

var _ Indicator = (*RealizedVol)(nil)

// NewRealizedVol creates a streaming volatility indicator over window returns.
func NewRealizedVol(window, periodsPerYear int) *RealizedVol {
	return &RealizedVol{
		window:         window,
		periodsPerYear: periodsPerYear,
		returns:        make([]float64, 0, window),
	}
}

func (v *RealizedVol) Name() string {
	return fmt.Sprintf("RVOL(%d)", v.window)
}

// Warmup counts closes: window returns need window+1 prices.
func (v *RealizedVol) Warmup() int {
	return v.window + 1
}

func (v *RealizedVol) Reset() {
	v.last = 0
	v.returns = v.returns[:0]
}

// Update ignores non-positive prices.
func (v *RealizedVol) Update(close float64) {
	if close <= 0 {
		return
	}
	if v.last > 0 {
		v.returns = append(v.returns, math.Log(close/v.last))
		// Keep only the last 'window' returns
		if len(v.returns) > v.window {
			v.returns = v.returns[1:]
		}
	}
	v.last = close
}

func (v *RealizedVol) Ready() bool {
	return v.window >= 2 && len(v.returns) >= v.window
}

func (v *RealizedVol) Value() float64 {
	if !v.Ready() {
		return 0
	}
	return StdDev(v.returns) * math.Sqrt(float64(v.periodsPerYear)) * 100
}
