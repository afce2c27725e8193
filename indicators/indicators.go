// Package indicators provides technical analysis indicators for trading.
//
// Batch functions take a full series and return outputs of the same length,
// with leading positions set to the undefined sentinel (NaN) until enough
// history exists. They never modify their input. Streaming types in
// streaming.go produce the same values one bar at a time.
package indicators

import (
	"math"

	"github.com/rustyeddy/pipengine/market"
)

// Indicator computes a single streaming value from bars.
// It is deterministic and safe to use in live and batch contexts.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "ATR(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* bar and updates internal state.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current value, or NaN before Ready().
	Value() float64
}

// Column is one named line of an indicator result, aligned with the input bars.
type Column struct {
	Name   string
	Values []float64
}

// Output is the result of one indicator run. Every column has the same
// length as the input series.
type Output struct {
	Indicator string
	Columns   []Column
}

// Column returns the values of the named column.
func (o Output) Column(name string) ([]float64, bool) {
	for _, c := range o.Columns {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

// Len returns the number of positions in the output.
func (o Output) Len() int {
	if len(o.Columns) == 0 {
		return 0
	}
	return len(o.Columns[0].Values)
}

// IsUndefined reports whether v is the "no value" sentinel.
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}

// FirstDefined returns the index of the first defined value, or len(values)
// when there is none.
func FirstDefined(values []float64) int {
	for i, v := range values {
		if !IsUndefined(v) {
			return i
		}
	}
	return len(values)
}

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// onDefined applies fn to the defined suffix of values and re-aligns the
// result, so recurrences over already-smoothed lines keep their warmup.
func onDefined(values []float64, fn func([]float64) []float64) []float64 {
	out := undefinedSeries(len(values))
	s := FirstDefined(values)
	if s == len(values) {
		return out
	}
	copy(out[s:], fn(values[s:]))
	return out
}

func boolSeries(flags []bool) []float64 {
	out := make([]float64, len(flags))
	for i, f := range flags {
		if f {
			out[i] = 1
		}
	}
	return out
}

func single(indicator, column string, values []float64) Output {
	return Output{Indicator: indicator, Columns: []Column{{Name: column, Values: values}}}
}
