package market

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Row is one raw record from a tabular source (CSV, REST payload, feed).
type Row map[string]any

// Timestamp layouts accepted for string timestamps, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"20060102 150405",
}

var priceFields = []string{"open", "high", "low", "close"}

// ParseRows validates raw rows and converts them into Bars.
//
// Every row needs numeric open, high, low, close and volume (tick_volume is
// accepted in place of volume) plus a timestamp under "time" or "timestamp".
// Numeric timestamps are Unix milliseconds.
func ParseRows(rows []Row) (Bars, error) {
	if len(rows) == 0 {
		return nil, EmptySeriesError("")
	}

	bars := make(Bars, len(rows))
	for i, r := range rows {
		b, err := parseRow(i, normalizeKeys(r))
		if err != nil {
			return nil, err
		}
		bars[i] = b
	}

	if err := Validate(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// Validate checks the shape of an already typed series: non-empty, finite
// prices, high >= low and non-decreasing timestamps.
func Validate(bars Bars) error {
	if len(bars) == 0 {
		return EmptySeriesError("")
	}
	for i, b := range bars {
		for _, p := range []struct {
			name string
			v    float64
		}{{"open", b.Open}, {"high", b.High}, {"low", b.Low}, {"close", b.Close}, {"volume", b.Volume}} {
			if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
				return &ValidationError{Row: i, Field: p.name, Reason: "not a finite number"}
			}
		}
		if b.High < b.Low {
			return &ValidationError{Row: i, Field: "high", Reason: fmt.Sprintf("high %g below low %g", b.High, b.Low)}
		}
		if i > 0 && b.Time.Before(bars[i-1].Time) {
			return &ValidationError{Row: i, Field: "time", Reason: fmt.Sprintf("timestamp %s before previous %s",
				b.Time.Format(time.RFC3339), bars[i-1].Time.Format(time.RFC3339))}
		}
	}
	return nil
}

func normalizeKeys(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

func parseRow(idx int, r Row) (Bar, error) {
	var prices [4]float64
	for i, name := range priceFields {
		v, ok := r[name]
		if !ok {
			return Bar{}, &ValidationError{Row: idx, Field: name, Reason: "missing"}
		}
		f, err := toFloat(v)
		if err != nil {
			return Bar{}, &ValidationError{Row: idx, Field: name, Reason: err.Error()}
		}
		prices[i] = f
	}

	volField := "volume"
	v, ok := r[volField]
	if !ok {
		volField = "tick_volume"
		v, ok = r[volField]
	}
	if !ok {
		return Bar{}, &ValidationError{Row: idx, Field: "volume", Reason: "missing"}
	}
	vol, err := toFloat(v)
	if err != nil {
		return Bar{}, &ValidationError{Row: idx, Field: volField, Reason: err.Error()}
	}

	tsField := "time"
	tv, ok := r[tsField]
	if !ok {
		tsField = "timestamp"
		tv, ok = r[tsField]
	}
	if !ok {
		return Bar{}, &ValidationError{Row: idx, Field: "timestamp", Reason: "missing"}
	}
	ts, err := toTime(tv)
	if err != nil {
		return Bar{}, &ValidationError{Row: idx, Field: tsField, Reason: err.Error()}
	}

	return Bar{
		Time:   ts,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: vol,
	}, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("not numeric: %q", x)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("missing")
	default:
		return 0, fmt.Errorf("not numeric: %T", v)
	}
}

func toTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		return time.Time{}, fmt.Errorf("unparseable timestamp %q", x)
	case nil:
		return time.Time{}, fmt.Errorf("missing")
	default:
		f, err := toFloat(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("unparseable timestamp %v", v)
		}
		return time.UnixMilli(int64(f)).UTC(), nil
	}
}
