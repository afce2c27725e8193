package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/pipengine/market"
)

// PSARResult holds the Parabolic SAR and its trend state.
type PSARResult struct {
	SAR   []float64
	Trend []int // +1 up, -1 down
}

// PSAR calculates Wilder's Parabolic Stop and Reverse. The series starts in
// an uptrend with the SAR at the first low.
func PSAR(bars market.Bars, p PSARParams) (PSARResult, error) {
	if err := checkBars("PSAR", bars); err != nil {
		return PSARResult{}, err
	}
	if err := ValidateParams("PSAR", p); err != nil {
		return PSARResult{}, err
	}

	n := len(bars)
	res := PSARResult{SAR: make([]float64, n), Trend: make([]int, n)}

	sar := bars[0].Low
	ep := bars[0].High
	af := p.Start
	trend := 1
	res.SAR[0], res.Trend[0] = sar, trend

	for i := 1; i < n; i++ {
		b := bars[i]
		next := sar + af*(ep-sar)

		if trend == 1 {
			newEP, newAF := ep, af
			if b.High > ep {
				newEP = b.High
				newAF = math.Min(af+p.Increment, p.Maximum)
			}
			if next > b.Low {
				// reversal to downtrend
				trend = -1
				next = ep
				newAF = p.Start
				newEP = b.Low
			} else if i > 1 {
				next = math.Min(next, bars[i-1].Low)
			}
			ep, af = newEP, newAF
		} else {
			newEP, newAF := ep, af
			if b.Low < ep {
				newEP = b.Low
				newAF = math.Min(af+p.Increment, p.Maximum)
			}
			if next < b.High {
				// reversal to uptrend
				trend = 1
				next = ep
				newAF = p.Start
				newEP = b.High
			} else if i > 1 {
				next = math.Max(next, bars[i-1].High)
			}
			ep, af = newEP, newAF
		}

		sar = next
		res.SAR[i], res.Trend[i] = sar, trend
	}
	return res, nil
}

// ComputePSAR runs PSAR and flattens it into columns.
func ComputePSAR(bars market.Bars, p PSARParams) (Output, error) {
	res, err := PSAR(bars, p)
	if err != nil {
		return Output{}, err
	}

	trend := make([]float64, len(res.Trend))
	for i, t := range res.Trend {
		trend[i] = float64(t)
	}

	return Output{
		Indicator: fmt.Sprintf("PSAR(%g,%g,%g)", p.Start, p.Increment, p.Maximum),
		Columns: []Column{
			{Name: "sar", Values: res.SAR},
			{Name: "trend", Values: trend},
		},
	}, nil
}
