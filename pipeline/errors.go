package pipeline

import (
	"fmt"
	"strings"
)

// UnknownIndicatorError is returned when a request names an indicator the
// registry does not know.
type UnknownIndicatorError struct {
	Name  string
	Known []string
}

func (e *UnknownIndicatorError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown indicator %q", e.Name)
	}
	return fmt.Sprintf("unknown indicator %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}
