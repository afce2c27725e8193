package market

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	t.Run("comma separated", func(t *testing.T) {
		data := "time,open,high,low,close,volume\n" +
			"2025-08-01 00:00:00,3300.1,3301.5,3299.8,3300.9,120\n" +
			"2025-08-01 00:01:00,3300.9,3302.0,3300.2,3301.7,98\n"

		bars, err := LoadCSV(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, bars, 2)
		assert.Equal(t, 3301.7, bars[1].Close)
		assert.Equal(t, 98.0, bars[1].Volume)
	})

	t.Run("semicolon separated", func(t *testing.T) {
		data := "Time;Open;High;Low;Close;Volume\n" +
			"20250801 000000;1.1;1.2;1.0;1.15;5\n"

		bars, err := LoadCSV(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, bars, 1)
		assert.Equal(t, 1.15, bars[0].Close)
	})

	t.Run("header only is empty", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader("time,open,high,low,close,volume\n"))
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("blank input is empty", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader(""))
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("missing column", func(t *testing.T) {
		data := "time,open,high,low,volume\n2025-08-01,1,2,0.5,3\n"
		_, err := LoadCSV(strings.NewReader(data))
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "close", ve.Field)
	})
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte("time,open,high,low,close,volume\n2025-08-01,1,2,0.5,1.5,3\n"), 0o644))

	bars, err := LoadCSVFile(path)
	require.NoError(t, err)
	assert.Len(t, bars, 1)

	_, err = LoadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
