package indicators

import (
	"fmt"

	"github.com/rustyeddy/pipengine/market"
)

// ZeroLagMACDResult holds the Enhanced Zero-Lag MACD lines.
type ZeroLagMACDResult struct {
	MACD          []float64
	Signal        []float64
	Histogram     []float64
	UpHistogram   []float64 // histogram where positive, else 0
	DownHistogram []float64 // histogram where zero or negative, else 0
	MACDEMA       []float64 // EMA of the MACD line
}

// ZeroLagMACD calculates the Enhanced Zero-Lag MACD.
//
// Each leg is de-lagged as 2*MA(x) - MA(MA(x)), the published zero-lag form,
// with MA either EMA or SMA. The signal line is the same zero-lag EMA of the
// MACD line, or its simple average with SignalAlgo "legacy".
func ZeroLagMACD(bars market.Bars, p ZeroLagMACDParams) (ZeroLagMACDResult, error) {
	if err := checkBars("ZeroLagMACD", bars); err != nil {
		return ZeroLagMACDResult{}, err
	}
	if err := ValidateParams("ZeroLagMACD", p); err != nil {
		return ZeroLagMACDResult{}, err
	}

	n := len(bars)
	src := bars.Values(sourceOrClose(p.Source))
	smoothing := resolveSmoothing(p.Smoothing)
	fast := zeroLag(src, p.Fast, smoothing)
	slow := zeroLag(src, p.Slow, smoothing)

	res := ZeroLagMACDResult{
		MACD:          undefinedSeries(n),
		Histogram:     undefinedSeries(n),
		UpHistogram:   undefinedSeries(n),
		DownHistogram: undefinedSeries(n),
	}
	for i := 0; i < n; i++ {
		if !IsUndefined(fast[i]) && !IsUndefined(slow[i]) {
			res.MACD[i] = fast[i] - slow[i]
		}
	}

	if p.SignalAlgo == SignalLegacy {
		res.Signal = smooth(res.MACD, p.Signal, MethodSMA)
	} else {
		res.Signal = zeroLag(res.MACD, p.Signal, MethodEMA)
	}

	for i := 0; i < n; i++ {
		if IsUndefined(res.Signal[i]) {
			continue
		}
		h := res.MACD[i] - res.Signal[i]
		res.Histogram[i] = h
		if h > 0 {
			res.UpHistogram[i], res.DownHistogram[i] = h, 0
		} else {
			res.UpHistogram[i], res.DownHistogram[i] = 0, h
		}
	}

	res.MACDEMA = smooth(res.MACD, p.MACDEMALength, MethodEMA)
	return res, nil
}

// ComputeZeroLagMACD runs ZeroLagMACD and flattens it into columns.
func ComputeZeroLagMACD(bars market.Bars, p ZeroLagMACDParams) (Output, error) {
	res, err := ZeroLagMACD(bars, p)
	if err != nil {
		return Output{}, err
	}
	return Output{
		Indicator: fmt.Sprintf("ZeroLagMACD(%d,%d,%d)", p.Fast, p.Slow, p.Signal),
		Columns: []Column{
			{Name: "macd", Values: res.MACD},
			{Name: "signal", Values: res.Signal},
			{Name: "histogram", Values: res.Histogram},
			{Name: "up_histogram", Values: res.UpHistogram},
			{Name: "down_histogram", Values: res.DownHistogram},
			{Name: "macd_ema", Values: res.MACDEMA},
		},
	}, nil
}
