package indicators

import (
	"testing"

	"github.com/rustyeddy/pipengine/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParamsAreValid(t *testing.T) {
	defaults := map[string]any{
		"EMA":          DefaultEMAParams(),
		"DEMA":         DefaultDEMAParams(),
		"ATR":          DefaultATRParams(),
		"ImpulseMACD":  DefaultImpulseMACDParams(),
		"ZeroLagMACD":  DefaultZeroLagMACDParams(),
		"FractalStops": DefaultFractalStopsParams(),
		"Supertrend":   DefaultSupertrendParams(),
		"PSAR":         DefaultPSARParams(),
	}
	for name, p := range defaults {
		assert.NoError(t, ValidateParams(name, p), name)
	}
}

func TestValidateParamsReportsConfigNames(t *testing.T) {
	err := ValidateParams("EMA", EMAParams{Period: 0})

	var pe *InvalidParameterError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "EMA", pe.Indicator)
	assert.Equal(t, "period", pe.Param)
	assert.Equal(t, 0, pe.Value)
	assert.Equal(t, "must be greater than 0", pe.Reason)
	assert.Equal(t, `EMA: invalid parameter "period" = 0: must be greater than 0`, err.Error())
}

func TestValidateParamsEmptyMeansDefault(t *testing.T) {
	assert.NoError(t, ValidateParams("EMA", EMAParams{Period: 3}))
	assert.NoError(t, ValidateParams("ATR", ATRParams{Period: 3}))
	assert.NoError(t, ValidateParams("ATR", ATRParams{Period: 3, Method: "wma"}))
}

func TestValidateParamsRejects(t *testing.T) {
	tests := []struct {
		name   string
		params any
		param  string
	}{
		{"bad source", EMAParams{Period: 3, Source: market.Field("vwap")}, "source"},
		{"zero signal length", ImpulseMACDParams{LengthMA: 3}, "length_signal"},
		{"zero right range", FractalStopsParams{Left: 2, FlipOn: FlipOnClose}, "right_range"},
		{"buffer too large", FractalStopsParams{Left: 2, Right: 2, BufferPercent: 100, FlipOn: FlipOnClose}, "buffer_percent"},
		{"maximum below start", PSARParams{Start: 0.3, Increment: 0.02, Maximum: 0.2}, "maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pe *InvalidParameterError
			require.ErrorAs(t, ValidateParams("X", tt.params), &pe)
			assert.Equal(t, tt.param, pe.Param)
			assert.NotEmpty(t, pe.Reason)
		})
	}
}

func TestComputeEMAOffset(t *testing.T) {
	bars := createTestBars()

	plain, err := ComputeEMA(bars, EMAParams{Period: 3})
	require.NoError(t, err)
	shifted, err := ComputeEMA(bars, EMAParams{Period: 3, Offset: 2})
	require.NoError(t, err)

	a, _ := plain.Column("ema")
	b, _ := shifted.Column("ema")
	assert.Equal(t, 4, FirstDefined(b))
	for i := 4; i < len(bars); i++ {
		assert.Equal(t, a[i-2], b[i])
	}
}

func TestComputeEMANegativeOffset(t *testing.T) {
	bars := createTestBars()

	plain, err := ComputeEMA(bars, EMAParams{Period: 3})
	require.NoError(t, err)
	shifted, err := ComputeEMA(bars, EMAParams{Period: 3, Offset: -2})
	require.NoError(t, err)

	a, _ := plain.Column("ema")
	b, _ := shifted.Column("ema")
	require.Len(t, b, len(bars))
	assert.Equal(t, 0, FirstDefined(b))
	for i := 0; i < len(bars)-2; i++ {
		assert.Equal(t, a[i+2], b[i], "position %d", i)
	}
	assert.True(t, IsUndefined(b[len(bars)-2]))
	assert.True(t, IsUndefined(b[len(bars)-1]))
}

func TestComputeEMASource(t *testing.T) {
	bars := createTestBars()
	out, err := ComputeEMA(bars, EMAParams{Period: 1, Source: market.FieldHigh})
	require.NoError(t, err)

	ema, _ := out.Column("ema")
	for i, b := range bars {
		assert.Equal(t, b.High, ema[i])
	}
}
