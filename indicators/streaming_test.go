package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamingMatchesBatch(t *testing.T) {
	bars := waveBars(100)
	closes := bars.Closes()

	sma, err := SMA(closes, 10)
	require.NoError(t, err)
	ema, err := EMA(closes, 10)
	require.NoError(t, err)
	atr, err := ATR(bars, 10, MethodRMA)
	require.NoError(t, err)

	tests := []struct {
		ind  Indicator
		want []float64
	}{
		{NewMA(10), sma},
		{NewEMA(10), ema},
		{NewATR(10), atr},
	}

	for _, tt := range tests {
		t.Run(tt.ind.Name(), func(t *testing.T) {
			for i, b := range bars {
				tt.ind.Update(b)
				if IsUndefined(tt.want[i]) {
					assert.False(t, tt.ind.Ready(), "position %d", i)
					assert.True(t, math.IsNaN(tt.ind.Value()))
					continue
				}
				require.True(t, tt.ind.Ready(), "position %d", i)
				assert.InDelta(t, tt.want[i], tt.ind.Value(), 1e-9, "position %d", i)
			}
		})
	}
}

func TestStreamingReset(t *testing.T) {
	bars := createTestBars()

	for _, ind := range []Indicator{NewMA(3), NewEMA(3), NewATR(3)} {
		for _, b := range bars {
			ind.Update(b)
		}
		first := ind.Value()
		require.True(t, ind.Ready())

		ind.Reset()
		assert.False(t, ind.Ready(), ind.Name())
		assert.True(t, math.IsNaN(ind.Value()))

		for _, b := range bars {
			ind.Update(b)
		}
		assert.InDelta(t, first, ind.Value(), 1e-12, ind.Name())
	}
}

func TestStreamingNamesAndWarmup(t *testing.T) {
	assert.Equal(t, "MA(5)", NewMA(5).Name())
	assert.Equal(t, "EMA(20)", NewEMA(20).Name())
	assert.Equal(t, "ATR(14)", NewATR(14).Name())
	assert.Equal(t, 14, NewATR(14).Warmup())
}

func TestStreamingMA(t *testing.T) {
	ma := NewMA(3)
	for _, b := range createTestBars()[:3] {
		ma.Update(b)
	}
	assert.InDelta(t, (102.0+105.0+106.0)/3, ma.Value(), 1e-9)

	ma.Update(createTestBars()[3])
	assert.InDelta(t, (105.0+106.0+108.0)/3, ma.Value(), 1e-9)
}
