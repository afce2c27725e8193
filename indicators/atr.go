package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/pipengine/market"
)

// TrueRange returns the true range of every bar. The first bar has no
// previous close, so its range is high-low.
func TrueRange(bars market.Bars) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			out[i] = b.High - b.Low
			continue
		}
		out[i] = trueRange(b, bars[i-1])
	}
	return out
}

// trueRange calculates the True Range for a bar given the previous bar
func trueRange(current, previous market.Bar) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}

// ATR calculates the Average True Range for the given period, smoothing the
// true range with method (RMA when empty). Positions before period-1 are
// undefined.
func ATR(bars market.Bars, period int, method MAType) ([]float64, error) {
	if err := checkBars("ATR", bars); err != nil {
		return nil, err
	}
	if err := checkPeriod("ATR", "period", period); err != nil {
		return nil, err
	}
	m, err := resolveMethod("ATR", "method", method)
	if err != nil {
		return nil, err
	}
	return smooth(TrueRange(bars), period, m), nil
}

// ComputeATR runs ATR with typed parameters.
func ComputeATR(bars market.Bars, p ATRParams) (Output, error) {
	if err := checkBars("ATR", bars); err != nil {
		return Output{}, err
	}
	if err := ValidateParams("ATR", p); err != nil {
		return Output{}, err
	}

	atr, err := ATR(bars, p.Period, p.Method)
	if err != nil {
		return Output{}, err
	}
	return single(fmt.Sprintf("ATR(%d)", p.Period), "atr", atr), nil
}
