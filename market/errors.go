package market

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed or empty input series.
type ValidationError struct {
	// Indicator is set when an indicator function rejected its input.
	Indicator string
	// Row is the zero-based offending row, or -1 when the whole series is at fault.
	Row    int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation")
	if e.Indicator != "" {
		fmt.Fprintf(&sb, " %s", e.Indicator)
	}
	if e.Row >= 0 {
		fmt.Fprintf(&sb, ": row %d", e.Row)
	}
	if e.Field != "" {
		fmt.Fprintf(&sb, ": field %q", e.Field)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	return sb.String()
}

// EmptySeriesError is returned when an indicator or the pipeline receives no data.
func EmptySeriesError(indicator string) *ValidationError {
	return &ValidationError{Indicator: indicator, Row: -1, Reason: "series is empty"}
}
