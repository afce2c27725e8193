package indicators

import (
	"fmt"

	"github.com/rustyeddy/pipengine/market"
)

// InvalidParameterError reports an out-of-range or unsupported parameter value.
type InvalidParameterError struct {
	Indicator string
	Param     string
	Value     any
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: invalid parameter %q = %v: %s", e.Indicator, e.Param, e.Value, e.Reason)
}

func checkPeriod(indicator, param string, period int) error {
	if period <= 0 {
		return &InvalidParameterError{Indicator: indicator, Param: param, Value: period, Reason: "must be positive"}
	}
	return nil
}

func checkValues(indicator string, values []float64) error {
	if len(values) == 0 {
		return market.EmptySeriesError(indicator)
	}
	return nil
}

func checkBars(indicator string, bars market.Bars) error {
	if len(bars) == 0 {
		return market.EmptySeriesError(indicator)
	}
	return nil
}
