package indicators

import (
	"math"
	"time"

	"github.com/rustyeddy/pipengine/market"
)

var baseTime = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

func createTestBars() market.Bars {
	return market.Bars{
		{Open: 100, High: 105, Low: 99, Close: 102, Time: baseTime, Volume: 1000},
		{Open: 102, High: 107, Low: 101, Close: 105, Time: baseTime.Add(time.Hour), Volume: 1100},
		{Open: 105, High: 108, Low: 104, Close: 106, Time: baseTime.Add(2 * time.Hour), Volume: 1200},
		{Open: 106, High: 110, Low: 105, Close: 108, Time: baseTime.Add(3 * time.Hour), Volume: 1300},
		{Open: 108, High: 112, Low: 107, Close: 110, Time: baseTime.Add(4 * time.Hour), Volume: 1400},
		{Open: 110, High: 113, Low: 109, Close: 111, Time: baseTime.Add(5 * time.Hour), Volume: 1500},
		{Open: 111, High: 115, Low: 110, Close: 113, Time: baseTime.Add(6 * time.Hour), Volume: 1600},
		{Open: 113, High: 116, Low: 112, Close: 114, Time: baseTime.Add(7 * time.Hour), Volume: 1700},
		{Open: 114, High: 118, Low: 113, Close: 116, Time: baseTime.Add(8 * time.Hour), Volume: 1800},
		{Open: 116, High: 120, Low: 115, Close: 118, Time: baseTime.Add(9 * time.Hour), Volume: 1900},
	}
}

// waveBars is a drifting sine wave with bodies and wicks on every bar.
func waveBars(n int) market.Bars {
	bars := make(market.Bars, n)
	for i := range bars {
		x := float64(i)
		c := 100 + 0.05*x + 3*math.Sin(x/5)
		o := c - 0.4*math.Cos(x/3)
		bars[i] = market.Bar{
			Time:   baseTime.Add(time.Duration(i) * time.Minute),
			Open:   o,
			High:   math.Max(o, c) + 0.6,
			Low:    math.Min(o, c) - 0.6,
			Close:  c,
			Volume: 100 + float64(i%7),
		}
	}
	return bars
}

// barsFromCloses builds bars with a fixed half-point wick around each close.
func barsFromCloses(closes []float64) market.Bars {
	bars := make(market.Bars, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:  baseTime.Add(time.Duration(i) * time.Minute),
			Open:  c,
			High:  c + 0.5,
			Low:   c - 0.5,
			Close: c,
		}
	}
	return bars
}

// zigzag walks up legs of `up` bars by step and back legs of `down` bars by back.
func zigzag(n int, start float64, up, down int, step, back float64) []float64 {
	closes := make([]float64, 0, n)
	p := start
	for len(closes) < n {
		for i := 0; i < up; i++ {
			p += step
			closes = append(closes, p)
		}
		for i := 0; i < down; i++ {
			p -= back
			closes = append(closes, p)
		}
	}
	return closes[:n]
}

func countDefined(values []float64) int {
	n := 0
	for _, v := range values {
		if !IsUndefined(v) {
			n++
		}
	}
	return n
}
