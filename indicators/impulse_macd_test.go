package indicators

import (
	"testing"

	"github.com/markcheno/go-talib"
	"github.com/rustyeddy/pipengine/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpulseMACDWarmup(t *testing.T) {
	res, err := ImpulseMACD(waveBars(80), ImpulseMACDParams{LengthMA: 5, LengthSignal: 3})
	require.NoError(t, err)

	assert.Equal(t, 8, FirstDefined(res.MD))
	assert.Equal(t, 10, FirstDefined(res.Signal))
	assert.Equal(t, 10, FirstDefined(res.Histogram))
	for i := 0; i < 8; i++ {
		assert.Equal(t, ImpulseNone, res.Color[i])
	}
	for i := 8; i < 80; i++ {
		assert.NotEqual(t, ImpulseNone, res.Color[i], "position %d", i)
	}
}

func TestImpulseMACDFlatMarket(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}

	res, err := ImpulseMACD(barsFromCloses(closes), ImpulseMACDParams{LengthMA: 5, LengthSignal: 3})
	require.NoError(t, err)
	for i := 8; i < len(closes); i++ {
		assert.Equal(t, 0.0, res.MD[i], "position %d", i)
		assert.Equal(t, ImpulseOrange, res.Color[i])
	}
}

func TestImpulseMACDTrendSign(t *testing.T) {
	rising := make([]float64, 60)
	falling := make([]float64, 60)
	for i := range rising {
		rising[i] = 100 + 2*float64(i)
		falling[i] = 300 - 2*float64(i)
	}
	p := ImpulseMACDParams{LengthMA: 5, LengthSignal: 3}

	up, err := ImpulseMACD(barsFromCloses(rising), p)
	require.NoError(t, err)
	down, err := ImpulseMACD(barsFromCloses(falling), p)
	require.NoError(t, err)

	for i := 20; i < 60; i++ {
		assert.Greater(t, up.MD[i], 0.0, "rising position %d", i)
		assert.Less(t, down.MD[i], 0.0, "falling position %d", i)
	}
}

func TestImpulseMACDChannelIsEMA(t *testing.T) {
	bars := waveBars(200)
	const length = 34

	res, err := ImpulseMACD(bars, ImpulseMACDParams{LengthMA: length, LengthSignal: 9})
	require.NoError(t, err)

	hi := talib.Ema(bars.Values(market.FieldHigh), length)
	lo := talib.Ema(bars.Values(market.FieldLow), length)
	mi, err := DEMA(bars.Values(market.FieldHLC3), length)
	require.NoError(t, err)

	start := 2 * (length - 1)
	require.Equal(t, start, FirstDefined(res.MD))
	inside := 0
	for i := start; i < len(bars); i++ {
		want := 0.0
		switch {
		case mi[i] > hi[i]:
			want = mi[i] - hi[i]
		case mi[i] < lo[i]:
			want = mi[i] - lo[i]
		default:
			inside++
		}
		assert.InDelta(t, want, res.MD[i], 1e-9, "position %d", i)
	}
	assert.Greater(t, inside, 0)
	assert.Less(t, inside, len(bars)-start)
}

func TestComputeImpulseMACD(t *testing.T) {
	out, err := ComputeImpulseMACD(waveBars(120), DefaultImpulseMACDParams())
	require.NoError(t, err)
	assert.Equal(t, "ImpulseMACD(34,9)", out.Indicator)

	for _, name := range []string{"md", "signal", "histogram", "color"} {
		col, ok := out.Column(name)
		require.True(t, ok, name)
		assert.Len(t, col, 120)
	}

	colors, _ := out.Column("color")
	assert.Equal(t, 66, FirstDefined(colors))
	for _, c := range colors[66:] {
		assert.Contains(t, []float64{1, 2, 3, 4}, c)
	}
}

func TestImpulseColorString(t *testing.T) {
	assert.Equal(t, "lime", ImpulseLime.String())
	assert.Equal(t, "green", ImpulseGreen.String())
	assert.Equal(t, "red", ImpulseRed.String())
	assert.Equal(t, "orange", ImpulseOrange.String())
	assert.Equal(t, "none", ImpulseNone.String())
}

func TestImpulseMACDInvalidParams(t *testing.T) {
	_, err := ImpulseMACD(market.Bars{{Open: 1, High: 1, Low: 1, Close: 1}}, ImpulseMACDParams{LengthMA: 0, LengthSignal: 9})

	var pe *InvalidParameterError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "ImpulseMACD", pe.Indicator)
	assert.Equal(t, "length_ma", pe.Param)
}
