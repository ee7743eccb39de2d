package indicators

import (
	"fmt"
	"math"
)

// Common sampling rates for annualizing.
const (
	PeriodsDaily24x7  = 365
	PeriodsDailyTrade = 252
	PeriodsHourly24x7 = 365 * 24
)

// LogReturns returns ln(c[i]/c[i-1]) for consecutive closes.
func LogReturns(closes []float64) ([]float64, error) {
	if len(closes) < 2 {
		return nil, fmt.Errorf("not enough closes: need 2, got %d", len(closes))
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			return nil, fmt.Errorf("close at %d is not positive", i)
		}
		out = append(out, math.Log(closes[i]/closes[i-1]))
	}
	return out, nil
}

// StdDev is the sample standard deviation.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// AnnualizedVolatility returns realized volatility in percent: the sample
// standard deviation of log returns scaled by sqrt(periodsPerYear).
func AnnualizedVolatility(closes []float64, periodsPerYear int) (float64, error) {
	if periodsPerYear <= 0 {
		return 0, fmt.Errorf("periodsPerYear must be positive, got %d", periodsPerYear)
	}
	rets, err := LogReturns(closes)
	if err != nil {
		return 0, err
	}
	return StdDev(rets) * math.Sqrt(float64(periodsPerYear)) * 100, nil
}
