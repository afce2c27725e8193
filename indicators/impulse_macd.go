package indicators

import (
	"fmt"

	"github.com/rustyeddy/pipengine/market"
)

// ImpulseColor classifies a bar relative to the Impulse MACD channel.
type ImpulseColor int

const (
	ImpulseNone   ImpulseColor = iota // not enough history
	ImpulseLime                       // above the mid line and the upper channel
	ImpulseGreen                      // above the mid line, inside the channel
	ImpulseRed                        // below the mid line and the lower channel
	ImpulseOrange                     // below the mid line, inside the channel
)

func (c ImpulseColor) String() string {
	switch c {
	case ImpulseLime:
		return "lime"
	case ImpulseGreen:
		return "green"
	case ImpulseRed:
		return "red"
	case ImpulseOrange:
		return "orange"
	default:
		return "none"
	}
}

// ImpulseMACDResult holds the Impulse MACD lines.
type ImpulseMACDResult struct {
	MD        []float64 // zero-lag line distance outside the high/low channel
	Signal    []float64 // simple average of MD
	Histogram []float64 // MD - Signal
	Color     []ImpulseColor
}

// ImpulseMACD calculates LazyBear's Impulse MACD.
//
// The mid line is a zero-lag EMA of hlc3; the channel is the EMA of the high
// and of the low. MD is zero while the mid line sits inside the channel.
func ImpulseMACD(bars market.Bars, p ImpulseMACDParams) (ImpulseMACDResult, error) {
	if err := checkBars("ImpulseMACD", bars); err != nil {
		return ImpulseMACDResult{}, err
	}
	if err := ValidateParams("ImpulseMACD", p); err != nil {
		return ImpulseMACDResult{}, err
	}

	n := len(bars)
	src := bars.Values(market.FieldHLC3)
	hi := smooth(bars.Values(market.FieldHigh), p.LengthMA, MethodEMA)
	lo := smooth(bars.Values(market.FieldLow), p.LengthMA, MethodEMA)
	mi := zeroLag(src, p.LengthMA, MethodEMA)

	res := ImpulseMACDResult{
		MD:        undefinedSeries(n),
		Histogram: undefinedSeries(n),
		Color:     make([]ImpulseColor, n),
	}

	for i := 0; i < n; i++ {
		if IsUndefined(mi[i]) || IsUndefined(hi[i]) || IsUndefined(lo[i]) {
			continue
		}

		switch {
		case mi[i] > hi[i]:
			res.MD[i] = mi[i] - hi[i]
		case mi[i] < lo[i]:
			res.MD[i] = mi[i] - lo[i]
		default:
			res.MD[i] = 0
		}

		switch {
		case src[i] > mi[i] && src[i] > hi[i]:
			res.Color[i] = ImpulseLime
		case src[i] > mi[i]:
			res.Color[i] = ImpulseGreen
		case src[i] < lo[i]:
			res.Color[i] = ImpulseRed
		default:
			res.Color[i] = ImpulseOrange
		}
	}

	res.Signal = smooth(res.MD, p.LengthSignal, MethodSMA)
	for i := 0; i < n; i++ {
		if !IsUndefined(res.Signal[i]) {
			res.Histogram[i] = res.MD[i] - res.Signal[i]
		}
	}
	return res, nil
}

// ComputeImpulseMACD runs ImpulseMACD and flattens it into columns.
// Colors are encoded as ImpulseColor codes, NaN when undefined.
func ComputeImpulseMACD(bars market.Bars, p ImpulseMACDParams) (Output, error) {
	res, err := ImpulseMACD(bars, p)
	if err != nil {
		return Output{}, err
	}

	colors := undefinedSeries(len(res.Color))
	for i, c := range res.Color {
		if c != ImpulseNone {
			colors[i] = float64(c)
		}
	}

	return Output{
		Indicator: fmt.Sprintf("ImpulseMACD(%d,%d)", p.LengthMA, p.LengthSignal),
		Columns: []Column{
			{Name: "md", Values: res.MD},
			{Name: "signal", Values: res.Signal},
			{Name: "histogram", Values: res.Histogram},
			{Name: "color", Values: colors},
		},
	}, nil
}
