package indicators

import (
	"testing"

	"github.com/rustyeddy/pipengine/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type computeCase struct {
	name    string
	warmup  int // first position any column may be defined
	compute func(market.Bars) (Output, error)
}

func computeCases() []computeCase {
	return []computeCase{
		{"EMA", 8, func(b market.Bars) (Output, error) { return ComputeEMA(b, DefaultEMAParams()) }},
		{"DEMA", 16, func(b market.Bars) (Output, error) { return ComputeDEMA(b, DefaultDEMAParams()) }},
		{"ATR", 13, func(b market.Bars) (Output, error) { return ComputeATR(b, DefaultATRParams()) }},
		{"ImpulseMACD", 66, func(b market.Bars) (Output, error) { return ComputeImpulseMACD(b, DefaultImpulseMACDParams()) }},
		{"ZeroLagMACD", 50, func(b market.Bars) (Output, error) { return ComputeZeroLagMACD(b, DefaultZeroLagMACDParams()) }},
		{"FractalStops", 4, func(b market.Bars) (Output, error) { return ComputeFractalStops(b, DefaultFractalStopsParams()) }},
		{"Supertrend", 9, func(b market.Bars) (Output, error) { return ComputeSupertrend(b, DefaultSupertrendParams()) }},
		{"PSAR", 0, func(b market.Bars) (Output, error) { return ComputePSAR(b, DefaultPSARParams()) }},
	}
}

func TestOutputsMatchInputLength(t *testing.T) {
	bars := waveBars(200)
	for _, tc := range computeCases() {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tc.compute(bars)
			require.NoError(t, err)
			require.NotEmpty(t, out.Columns)
			assert.NotEmpty(t, out.Indicator)
			for _, c := range out.Columns {
				assert.Len(t, c.Values, len(bars), c.Name)
			}
		})
	}
}

func TestNoValuesBeforeWarmup(t *testing.T) {
	bars := waveBars(200)
	for _, tc := range computeCases() {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tc.compute(bars)
			require.NoError(t, err)

			earliest := len(bars)
			for _, c := range out.Columns {
				first := FirstDefined(c.Values)
				assert.GreaterOrEqual(t, first, tc.warmup, c.Name)
				if first < earliest {
					earliest = first
				}
			}
			if tc.name != "FractalStops" {
				assert.Equal(t, tc.warmup, earliest)
			}
		})
	}
}

func TestShortInputIsUndefined(t *testing.T) {
	for _, tc := range computeCases() {
		if tc.warmup == 0 {
			continue
		}
		t.Run(tc.name, func(t *testing.T) {
			bars := waveBars(tc.warmup)
			out, err := tc.compute(bars)
			require.NoError(t, err)
			for _, c := range out.Columns {
				assert.Len(t, c.Values, tc.warmup)
				assert.Zero(t, countDefined(c.Values), c.Name)
			}
		})
	}
}

func TestEmptyInputIsValidationError(t *testing.T) {
	for _, tc := range computeCases() {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.compute(market.Bars{})

			var ve *market.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.Indicator)
		})
	}
}

func TestComputeDoesNotMutateBars(t *testing.T) {
	bars := waveBars(120)
	orig := append(market.Bars(nil), bars...)

	for _, tc := range computeCases() {
		_, err := tc.compute(bars)
		require.NoError(t, err)
	}
	assert.Equal(t, orig, bars)
}
