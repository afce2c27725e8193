package indicators

import (
	"math"
	"strings"

	"github.com/markcheno/go-talib"
)

// MAType selects a moving average smoothing method.
type MAType string

const (
	MethodSMA MAType = "SMA" // simple rolling mean
	MethodEMA MAType = "EMA" // exponential, alpha = 2/(period+1), SMA seeded
	MethodRMA MAType = "RMA" // Wilder's running average, alpha = 1/period, SMA seeded
	MethodWMA MAType = "WMA" // linearly weighted, newest sample heaviest
)

// MATypes lists the supported smoothing methods.
var MATypes = []MAType{MethodRMA, MethodSMA, MethodEMA, MethodWMA}

// ParseMAType resolves a smoothing method name, case-insensitively.
func ParseMAType(s string) (MAType, bool) {
	m := MAType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range MATypes {
		if m == t {
			return m, true
		}
	}
	return "", false
}

func unsupportedMethod(indicator, param string, m MAType) error {
	names := make([]string, len(MATypes))
	for i, t := range MATypes {
		names[i] = string(t)
	}
	return &InvalidParameterError{
		Indicator: indicator,
		Param:     param,
		Value:     string(m),
		Reason:    "unsupported smoothing method (want one of " + strings.Join(names, ", ") + ")",
	}
}

// MovingAverage smooths values with the given method. Positions before the
// first full window are undefined.
func MovingAverage(values []float64, period int, method MAType) ([]float64, error) {
	if err := checkValues("MA", values); err != nil {
		return nil, err
	}
	if err := checkPeriod("MA", "period", period); err != nil {
		return nil, err
	}
	m, ok := ParseMAType(string(method))
	if !ok {
		return nil, unsupportedMethod("MA", "method", method)
	}
	return smooth(values, period, m), nil
}

// smooth assumes validated arguments.
func smooth(values []float64, period int, m MAType) []float64 {
	var kernel func([]float64, int) []float64
	switch m {
	case MethodSMA:
		kernel = smaKernel
	case MethodRMA:
		kernel = rmaKernel
	case MethodWMA:
		kernel = wmaKernel
	default:
		kernel = emaKernel
	}
	return onDefined(values, func(x []float64) []float64 { return kernel(x, period) })
}

// EMA calculates the Exponential Moving Average for the given period.
//
// The first value is the simple average of the first period samples; every
// later value is alpha*x + (1-alpha)*prev with alpha = 2/(period+1).
func EMA(values []float64, period int) ([]float64, error) {
	if err := checkValues("EMA", values); err != nil {
		return nil, err
	}
	if err := checkPeriod("EMA", "period", period); err != nil {
		return nil, err
	}
	return smooth(values, period, MethodEMA), nil
}

// SMA calculates the rolling Simple Moving Average.
func SMA(values []float64, period int) ([]float64, error) {
	if err := checkValues("SMA", values); err != nil {
		return nil, err
	}
	if err := checkPeriod("SMA", "period", period); err != nil {
		return nil, err
	}
	return smooth(values, period, MethodSMA), nil
}

func emaKernel(x []float64, period int) []float64 {
	out := undefinedSeries(len(x))
	if len(x) < period {
		return out
	}

	multiplier := 2.0 / float64(period+1)

	// Start with SMA for first value
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += x[i]
	}
	out[period-1] = sum / float64(period)

	for i := period; i < len(x); i++ {
		out[i] = x[i]*multiplier + out[i-1]*(1-multiplier)
	}
	return out
}

func rmaKernel(x []float64, period int) []float64 {
	out := undefinedSeries(len(x))
	if len(x) < period {
		return out
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += x[i]
	}
	out[period-1] = sum / float64(period)

	p := float64(period)
	for i := period; i < len(x); i++ {
		out[i] = (out[i-1]*(p-1) + x[i]) / p
	}
	return out
}

func smaKernel(x []float64, period int) []float64 {
	if len(x) < period {
		return undefinedSeries(len(x))
	}
	return maskWarmup(talib.Sma(x, period), period-1)
}

func wmaKernel(x []float64, period int) []float64 {
	if len(x) < period {
		return undefinedSeries(len(x))
	}
	return maskWarmup(talib.Wma(x, period), period-1)
}

// maskWarmup replaces the zero padding talib leaves in the lookback region.
func maskWarmup(out []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}
