// Package engagement turns raw listener events into per-artist time-of-day
// and day-of-week engagement aggregates.
//
// Everything in this package is pure: functions take an immutable input
// snapshot and return freshly allocated results.
package engagement

import (
	"errors"
	"fmt"
	"maps"
)

// ErrUnresolvableTimezone is returned when a timezone name is not in the offset table.
var ErrUnresolvableTimezone = errors.New("unresolvable timezone")

// OffsetTable maps a timezone name to a fixed UTC offset in whole hours.
// Offsets do not follow daylight saving time.
type OffsetTable map[string]int

// DefaultOffsets returns a fresh copy of the built-in offset table.
func DefaultOffsets() OffsetTable {
	return OffsetTable{
		"America/New_York":    -4,
		"America/Los_Angeles": -7,
		"Europe/London":       1,
		"Asia/Tokyo":          9,
		"Australia/Sydney":    10,
		"Africa/Johannesburg": 2,
	}
}

// Resolver maps timezone names to offsets using a fixed table.
type Resolver struct {
	offsets OffsetTable
}

// NewResolver creates a resolver over a private copy of offsets.
// A nil table selects DefaultOffsets.
func NewResolver(offsets OffsetTable) *Resolver {
	if offsets == nil {
		offsets = DefaultOffsets()
	}
	return &Resolver{offsets: maps.Clone(offsets)}
}

// Resolve returns the offset in hours for the named timezone.
func (r *Resolver) Resolve(name string) (int, error) {
	offset, ok := r.offsets[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnresolvableTimezone, name)
	}
	return offset, nil
}

// Timezones returns the number of names the resolver knows.
func (r *Resolver) Timezones() int {
	return len(r.offsets)
}

// Table returns a copy of the resolver's offset table.
func (r *Resolver) Table() OffsetTable {
	return maps.Clone(r.offsets)
}
