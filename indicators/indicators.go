// Package indicators computes market statistics used to scale position size.
package indicators

// Indicator computes a single streaming value from closing prices.
// It is deterministic and safe to use on live and historical data.
type Indicator interface {
	// Name returns a stable identifier like "RVOL(30)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next closing price.
	Update(close float64)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current value, 0 before Ready().
	Value() float64
}
