package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/pipengine/market"
)

// Trade direction of the fractal stop regime.
const (
	DirectionNone  = 0
	DirectionLong  = 1
	DirectionShort = -1
)

// FractalStopsResult holds the Williams Fractal Trailing Stops lines.
type FractalStopsResult struct {
	// FractalHigh/FractalLow carry the buffered fractal price on the bar that
	// confirms it (Right bars after the extreme) and NaN elsewhere.
	FractalHigh []float64
	FractalLow  []float64

	LongStop  []float64 // active stop while long, NaN otherwise
	ShortStop []float64 // active stop while short, NaN otherwise
	Stop      []float64 // active stop of the current regime
	Direction []int
}

// FractalStops calculates Williams Fractal Trailing Stops.
//
// A bar is a fractal high when its high is strictly above every other high in
// the Left/Right window around it (lows mirror this). Fractals are only known
// Right bars later, so nothing is emitted before Left+Right bars exist.
//
// The long stop follows confirmed fractal lows and only ever rises; the short
// stop follows fractal highs and only ever falls. When the flip price crosses
// the previous bar's stop the regime flips and the new stop starts from the
// latest opposite fractal, clamped to the far side of the flipping bar.
func FractalStops(bars market.Bars, p FractalStopsParams) (FractalStopsResult, error) {
	if err := checkBars("FractalStops", bars); err != nil {
		return FractalStopsResult{}, err
	}
	if err := ValidateParams("FractalStops", p); err != nil {
		return FractalStopsResult{}, err
	}

	n := len(bars)
	res := FractalStopsResult{
		FractalHigh: undefinedSeries(n),
		FractalLow:  undefinedSeries(n),
		LongStop:    undefinedSeries(n),
		ShortStop:   undefinedSeries(n),
		Stop:        undefinedSeries(n),
		Direction:   make([]int, n),
	}

	window := p.Left + p.Right
	if n <= window {
		return res, nil
	}

	upBuf := 1 + p.BufferPercent/100
	downBuf := 1 - p.BufferPercent/100

	dir := DirectionNone
	stop := math.NaN()
	lastHigh, lastLow := math.NaN(), math.NaN()

	for i := window; i < n; i++ {
		b := bars[i]

		// Invalidation is checked against the stop carried from the previous bar.
		switch dir {
		case DirectionLong:
			price := b.Close
			if p.FlipOn == FlipOnWick {
				price = b.Low
			}
			if price < stop {
				dir = DirectionShort
				stop = b.High
				if !math.IsNaN(lastHigh) && lastHigh > stop {
					stop = lastHigh
				}
			}
		case DirectionShort:
			price := b.Close
			if p.FlipOn == FlipOnWick {
				price = b.High
			}
			if price > stop {
				dir = DirectionLong
				stop = b.Low
				if !math.IsNaN(lastLow) && lastLow < stop {
					stop = lastLow
				}
			}
		}

		isHigh, isLow := fractalAt(bars, i-p.Right, p.Left, p.Right)
		if isHigh {
			lastHigh = bars[i-p.Right].High * upBuf
			res.FractalHigh[i] = lastHigh
		}
		if isLow {
			lastLow = bars[i-p.Right].Low * downBuf
			res.FractalLow[i] = lastLow
		}

		switch dir {
		case DirectionNone:
			switch {
			case isHigh && isLow:
				if b.Close >= (lastHigh+lastLow)/2 {
					dir, stop = DirectionLong, lastLow
				} else {
					dir, stop = DirectionShort, lastHigh
				}
			case isLow:
				dir, stop = DirectionLong, lastLow
			case isHigh:
				dir, stop = DirectionShort, lastHigh
			}
		case DirectionLong:
			if isLow && lastLow > stop {
				stop = lastLow
			}
		case DirectionShort:
			if isHigh && lastHigh < stop {
				stop = lastHigh
			}
		}

		res.Direction[i] = dir
		switch dir {
		case DirectionLong:
			res.LongStop[i] = stop
			res.Stop[i] = stop
		case DirectionShort:
			res.ShortStop[i] = stop
			res.Stop[i] = stop
		}
	}
	return res, nil
}

// fractalAt reports whether bar c is a strict high and/or low fractal.
func fractalAt(bars market.Bars, c, left, right int) (isHigh, isLow bool) {
	isHigh, isLow = true, true
	for j := c - left; j <= c+right; j++ {
		if j == c {
			continue
		}
		if bars[j].High >= bars[c].High {
			isHigh = false
		}
		if bars[j].Low <= bars[c].Low {
			isLow = false
		}
		if !isHigh && !isLow {
			break
		}
	}
	return isHigh, isLow
}

// ComputeFractalStops runs FractalStops and flattens it into columns.
// Direction is +1/-1, NaN before the first fractal.
func ComputeFractalStops(bars market.Bars, p FractalStopsParams) (Output, error) {
	res, err := FractalStops(bars, p)
	if err != nil {
		return Output{}, err
	}

	dir := undefinedSeries(len(res.Direction))
	for i, d := range res.Direction {
		if d != DirectionNone {
			dir[i] = float64(d)
		}
	}

	return Output{
		Indicator: fmt.Sprintf("WilliamsFractalStops(%d,%d)", p.Left, p.Right),
		Columns: []Column{
			{Name: "fractal_high", Values: res.FractalHigh},
			{Name: "fractal_low", Values: res.FractalLow},
			{Name: "long_stop", Values: res.LongStop},
			{Name: "short_stop", Values: res.ShortStop},
			{Name: "stop", Values: res.Stop},
			{Name: "direction", Values: dir},
		},
	}, nil
}
