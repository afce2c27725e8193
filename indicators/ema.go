package indicators

import (
	"fmt"

	"github.com/rustyeddy/pipengine/market"
)

// ComputeEMA runs EMA over the configured source field of bars.
func ComputeEMA(bars market.Bars, p EMAParams) (Output, error) {
	if err := checkBars("EMA", bars); err != nil {
		return Output{}, err
	}
	if err := ValidateParams("EMA", p); err != nil {
		return Output{}, err
	}

	ema, err := EMA(bars.Values(sourceOrClose(p.Source)), p.Period)
	if err != nil {
		return Output{}, err
	}
	if p.Offset != 0 {
		ema = shift(ema, p.Offset)
	}
	return single(fmt.Sprintf("EMA(%d)", p.Period), "ema", ema), nil
}

// shift moves values forward by n positions (back when n is negative).
// Vacated positions are NaN.
func shift(values []float64, n int) []float64 {
	out := undefinedSeries(len(values))
	for i := range out {
		if j := i - n; j >= 0 && j < len(values) {
			out[i] = values[j]
		}
	}
	return out
}
