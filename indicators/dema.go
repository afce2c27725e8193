package indicators

import (
	"fmt"

	"github.com/rustyeddy/pipengine/market"
)

// DEMA calculates the Double Exponential Moving Average:
// 2*EMA(x) - EMA(EMA(x)). The first 2*(period-1) positions are undefined.
func DEMA(values []float64, period int) ([]float64, error) {
	if err := checkValues("DEMA", values); err != nil {
		return nil, err
	}
	if err := checkPeriod("DEMA", "period", period); err != nil {
		return nil, err
	}
	return zeroLag(values, period, MethodEMA), nil
}

// zeroLag returns 2*MA(x) - MA(MA(x)). With EMA smoothing this is DEMA,
// which is also the ZLEMA used by the MACD variants.
func zeroLag(values []float64, period int, m MAType) []float64 {
	ma1 := smooth(values, period, m)
	ma2 := smooth(ma1, period, m)

	out := undefinedSeries(len(values))
	for i := range out {
		if IsUndefined(ma1[i]) || IsUndefined(ma2[i]) {
			continue
		}
		out[i] = 2*ma1[i] - ma2[i]
	}
	return out
}

// ComputeDEMA runs DEMA over the configured source field of bars.
func ComputeDEMA(bars market.Bars, p DEMAParams) (Output, error) {
	if err := checkBars("DEMA", bars); err != nil {
		return Output{}, err
	}
	if err := ValidateParams("DEMA", p); err != nil {
		return Output{}, err
	}

	dema, err := DEMA(bars.Values(sourceOrClose(p.Source)), p.Period)
	if err != nil {
		return Output{}, err
	}
	return single(fmt.Sprintf("DEMA(%d)", p.Period), "dema", dema), nil
}
