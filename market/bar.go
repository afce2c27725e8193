package market

import "time"

// Bar is one OHLCV sample.
type Bar struct {
	Time time.Time

	Open  float64
	High  float64
	Low   float64
	Close float64

	Volume float64
}

// Bars is a chronologically ordered series of bars.
type Bars []Bar

// Field selects which price of a bar feeds an indicator.
type Field string

const (
	FieldOpen  Field = "open"
	FieldHigh  Field = "high"
	FieldLow   Field = "low"
	FieldClose Field = "close"
	FieldHL2   Field = "hl2"   // (high+low)/2
	FieldHLC3  Field = "hlc3"  // (high+low+close)/3
	FieldOHLC4 Field = "ohlc4" // (open+high+low+close)/4
)

// Fields lists every supported source field.
var Fields = []Field{FieldOpen, FieldHigh, FieldLow, FieldClose, FieldHL2, FieldHLC3, FieldOHLC4}

// Valid reports whether f is one of the supported source fields.
func (f Field) Valid() bool {
	for _, v := range Fields {
		if f == v {
			return true
		}
	}
	return false
}

// Price returns the value of field f for the bar. Unknown fields return close.
func (b Bar) Price(f Field) float64 {
	switch f {
	case FieldOpen:
		return b.Open
	case FieldHigh:
		return b.High
	case FieldLow:
		return b.Low
	case FieldHL2:
		return (b.High + b.Low) / 2
	case FieldHLC3:
		return (b.High + b.Low + b.Close) / 3
	case FieldOHLC4:
		return (b.Open + b.High + b.Low + b.Close) / 4
	default:
		return b.Close
	}
}

// Values extracts one field of every bar into a new slice.
func (bs Bars) Values(f Field) []float64 {
	out := make([]float64, len(bs))
	for i, b := range bs {
		out[i] = b.Price(f)
	}
	return out
}

// Closes is shorthand for Values(FieldClose).
func (bs Bars) Closes() []float64 {
	return bs.Values(FieldClose)
}

// Times returns the bar timestamps.
func (bs Bars) Times() []time.Time {
	out := make([]time.Time, len(bs))
	for i, b := range bs {
		out[i] = b.Time
	}
	return out
}
