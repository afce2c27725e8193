package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zigzagBars rises five bars by 1 and falls three by 1.2 from 100.
func zigzagBars(n int) []float64 {
	return zigzag(n, 100, 5, 3, 1, 1.2)
}

func TestFractalStopsDetection(t *testing.T) {
	res, err := FractalStops(barsFromCloses(zigzagBars(40)), DefaultFractalStopsParams())
	require.NoError(t, err)

	// The 105 close at bar 4 is confirmed two bars later.
	assert.True(t, IsUndefined(res.FractalHigh[4]))
	assert.InDelta(t, 105.5, res.FractalHigh[6], 1e-9)
	assert.InDelta(t, 100.9, res.FractalLow[9], 1e-9)

	for i := 0; i < 4; i++ {
		assert.True(t, IsUndefined(res.FractalHigh[i]))
		assert.True(t, IsUndefined(res.FractalLow[i]))
		assert.True(t, IsUndefined(res.Stop[i]))
		assert.Equal(t, DirectionNone, res.Direction[i])
	}
}

func TestFractalStopsEqualHighsAreNotFractals(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}

	res, err := FractalStops(barsFromCloses(closes), DefaultFractalStopsParams())
	require.NoError(t, err)
	assert.Zero(t, countDefined(res.FractalHigh))
	assert.Zero(t, countDefined(res.FractalLow))
	assert.Zero(t, countDefined(res.Stop))
	for _, d := range res.Direction {
		assert.Equal(t, DirectionNone, d)
	}
}

func TestFractalStopsRegime(t *testing.T) {
	res, err := FractalStops(barsFromCloses(zigzagBars(40)), DefaultFractalStopsParams())
	require.NoError(t, err)

	// First confirmed fractal is a high, so the regime starts short.
	assert.Equal(t, DirectionShort, res.Direction[6])
	assert.InDelta(t, 105.5, res.ShortStop[6], 1e-9)
	assert.True(t, IsUndefined(res.LongStop[6]))

	// The 106.4 close at bar 12 crosses the 105.5 short stop.
	assert.Equal(t, DirectionShort, res.Direction[11])
	assert.Equal(t, DirectionLong, res.Direction[12])
	assert.InDelta(t, 100.9, res.LongStop[12], 1e-9)
	assert.True(t, IsUndefined(res.ShortStop[12]))

	assert.InDelta(t, 102.3, res.LongStop[17], 1e-9)
	assert.InDelta(t, 103.7, res.LongStop[25], 1e-9)
	assert.InDelta(t, 105.1, res.LongStop[39], 1e-9)
}

func TestFractalStopsLongStopNeverFalls(t *testing.T) {
	res, err := FractalStops(barsFromCloses(zigzagBars(120)), DefaultFractalStopsParams())
	require.NoError(t, err)

	raised := 0
	for i := 1; i < len(res.Direction); i++ {
		if res.Direction[i] != DirectionLong || res.Direction[i-1] != DirectionLong {
			continue
		}
		assert.GreaterOrEqual(t, res.LongStop[i], res.LongStop[i-1], "position %d", i)
		if res.LongStop[i] > res.LongStop[i-1] {
			raised++
		}
	}
	assert.Greater(t, raised, 3)
}

func TestFractalStopsShortStopNeverRises(t *testing.T) {
	closes := zigzag(120, 300, 5, 3, -1, -1.2)
	res, err := FractalStops(barsFromCloses(closes), DefaultFractalStopsParams())
	require.NoError(t, err)

	lowered := 0
	for i := 1; i < len(res.Direction); i++ {
		if res.Direction[i] != DirectionShort || res.Direction[i-1] != DirectionShort {
			continue
		}
		assert.LessOrEqual(t, res.ShortStop[i], res.ShortStop[i-1], "position %d", i)
		if res.ShortStop[i] < res.ShortStop[i-1] {
			lowered++
		}
	}
	assert.Greater(t, lowered, 3)
}

func TestFractalStopsFlip(t *testing.T) {
	closes := zigzagBars(40)
	last := closes[len(closes)-1]
	closes = append(closes, last-4, last-8, last-12)

	for _, flipOn := range []string{FlipOnClose, FlipOnWick} {
		p := DefaultFractalStopsParams()
		p.FlipOn = flipOn
		res, err := FractalStops(barsFromCloses(closes), p)
		require.NoError(t, err)

		assert.Equal(t, DirectionLong, res.Direction[39], flipOn)
		assert.Equal(t, DirectionShort, res.Direction[40], flipOn)
		assert.True(t, IsUndefined(res.LongStop[40]))
		// The new short stop starts from the last fractal high.
		assert.InDelta(t, 111.1, res.ShortStop[40], 1e-9, flipOn)
		assert.Greater(t, res.ShortStop[40], closes[40])
	}
}

func TestFractalStopsBuffer(t *testing.T) {
	p := DefaultFractalStopsParams()
	p.BufferPercent = 1

	res, err := FractalStops(barsFromCloses(zigzagBars(40)), p)
	require.NoError(t, err)
	assert.InDelta(t, 105.5*1.01, res.FractalHigh[6], 1e-9)
	assert.InDelta(t, 100.9*0.99, res.FractalLow[9], 1e-9)
	assert.InDelta(t, 105.5*1.01, res.ShortStop[6], 1e-9)
}

func TestFractalStopsShortInput(t *testing.T) {
	out, err := ComputeFractalStops(barsFromCloses([]float64{1, 2, 3, 2}), DefaultFractalStopsParams())
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
	for _, c := range out.Columns {
		assert.Zero(t, countDefined(c.Values), c.Name)
	}
}

func TestComputeFractalStopsDirection(t *testing.T) {
	out, err := ComputeFractalStops(barsFromCloses(zigzagBars(40)), DefaultFractalStopsParams())
	require.NoError(t, err)
	assert.Equal(t, "WilliamsFractalStops(2,2)", out.Indicator)

	dir, ok := out.Column("direction")
	require.True(t, ok)
	assert.Equal(t, 6, FirstDefined(dir))
	assert.Equal(t, -1.0, dir[6])
	assert.Equal(t, 1.0, dir[12])
}

func TestFractalStopsInvalidParams(t *testing.T) {
	p := DefaultFractalStopsParams()
	p.BufferPercent = -1
	_, err := FractalStops(barsFromCloses(zigzagBars(10)), p)

	var pe *InvalidParameterError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "buffer_percent", pe.Param)

	p = DefaultFractalStopsParams()
	p.FlipOn = "open"
	_, err = FractalStops(barsFromCloses(zigzagBars(10)), p)
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "flip_on", pe.Param)
}
