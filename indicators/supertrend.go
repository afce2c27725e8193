package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/pipengine/market"
)

// SupertrendResult holds the Supertrend bands and trend state.
type SupertrendResult struct {
	Trend []int // +1 up, -1 down, 0 during ATR warmup
	Up    []float64
	Down  []float64
	Buy   []bool // trend flipped to +1 on this bar
	Sell  []bool // trend flipped to -1 on this bar
	ATR   []float64
}

// Supertrend calculates ATR bands around the source price. The lower band
// only rises while the previous close stays above it and the upper band only
// falls while the previous close stays below it; the trend flips when the
// close crosses the previous bar's opposite band.
func Supertrend(bars market.Bars, p SupertrendParams) (SupertrendResult, error) {
	if err := checkBars("Supertrend", bars); err != nil {
		return SupertrendResult{}, err
	}
	if err := ValidateParams("Supertrend", p); err != nil {
		return SupertrendResult{}, err
	}

	atr, err := ATR(bars, p.ATRPeriod, p.ATRMethod)
	if err != nil {
		return SupertrendResult{}, err
	}

	source := p.Source
	if source == "" {
		source = market.FieldHL2
	}
	src := bars.Values(source)

	n := len(bars)
	res := SupertrendResult{
		Trend: make([]int, n),
		Up:    undefinedSeries(n),
		Down:  undefinedSeries(n),
		Buy:   make([]bool, n),
		Sell:  make([]bool, n),
		ATR:   atr,
	}

	start := FirstDefined(atr)
	trend := 1
	for i := start; i < n; i++ {
		up := src[i] - p.Multiplier*atr[i]
		dn := src[i] + p.Multiplier*atr[i]

		if i > start {
			up1, dn1 := res.Up[i-1], res.Down[i-1]
			prevClose := bars[i-1].Close
			if prevClose > up1 {
				up = math.Max(up, up1)
			}
			if prevClose < dn1 {
				dn = math.Min(dn, dn1)
			}

			prev := trend
			switch {
			case trend == -1 && bars[i].Close > dn1:
				trend = 1
			case trend == 1 && bars[i].Close < up1:
				trend = -1
			}
			res.Buy[i] = trend == 1 && prev == -1
			res.Sell[i] = trend == -1 && prev == 1
		}

		res.Up[i] = up
		res.Down[i] = dn
		res.Trend[i] = trend
	}
	return res, nil
}

// ComputeSupertrend runs Supertrend and flattens it into columns.
func ComputeSupertrend(bars market.Bars, p SupertrendParams) (Output, error) {
	res, err := Supertrend(bars, p)
	if err != nil {
		return Output{}, err
	}

	start := FirstDefined(res.ATR)
	trend := undefinedSeries(len(res.Trend))
	for i := start; i < len(trend); i++ {
		trend[i] = float64(res.Trend[i])
	}

	return Output{
		Indicator: fmt.Sprintf("Supertrend(%d,%g)", p.ATRPeriod, p.Multiplier),
		Columns: []Column{
			{Name: "trend", Values: trend},
			{Name: "up", Values: res.Up},
			{Name: "down", Values: res.Down},
			{Name: "buy", Values: maskBefore(boolSeries(res.Buy), start)},
			{Name: "sell", Values: maskBefore(boolSeries(res.Sell), start)},
			{Name: "atr", Values: res.ATR},
		},
	}, nil
}

func maskBefore(values []float64, k int) []float64 {
	for i := 0; i < k && i < len(values); i++ {
		values[i] = math.NaN()
	}
	return values
}
