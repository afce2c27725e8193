// Package id generates time-sortable run identifiers.
package id

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID string. IDs made by one process sort by creation time,
// including IDs made within the same millisecond.
func New() string {
	return ulid.Make().String()
}

// Time returns the creation time encoded in a run ID.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse run id %q: %w", s, err)
	}
	return ulid.Time(u.Time()).UTC(), nil
}
