package models

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format accepted for reference dates.
const DateLayout = "2006-01-02"

// Query parameter errors.
var (
	ErrInvalidViewMode  = errors.New("invalid view mode")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrInvalidDate      = errors.New("invalid date")
)

// ParseDate parses an ISO calendar date. Empty input selects the current
// UTC date.
func ParseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		now = now.UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return d, nil
}

// ViewMode selects between all-history averages and a bounded calendar window.
type ViewMode int

const (
	// ViewModeAverage aggregates over all available history.
	ViewModeAverage ViewMode = iota
	// ViewModeHistorical restricts aggregation to a calendar window.
	ViewModeHistorical
)

// ParseViewMode parses a view mode name. Empty input selects ViewModeAverage.
func ParseViewMode(s string) (ViewMode, error) {
	switch s {
	case "", "average":
		return ViewModeAverage, nil
	case "historical":
		return ViewModeHistorical, nil
	default:
		return ViewModeAverage, fmt.Errorf("%w %q", ErrInvalidViewMode, s)
	}
}

// String returns the name of the view mode.
func (v ViewMode) String() string {
	switch v {
	case ViewModeAverage:
		return "average"
	case ViewModeHistorical:
		return "historical"
	default:
		return "unknown"
	}
}

// TimeRange represents the calendar span of a historical window.
type TimeRange int

const (
	// TimeRangeDay is a single calendar day.
	TimeRangeDay TimeRange = iota
	// TimeRangeWeek is the Sunday-to-Saturday week.
	TimeRangeWeek
	// TimeRangeMonth is the calendar month.
	TimeRangeMonth
	// TimeRangeYear is the calendar year.
	TimeRangeYear
)

// ParseTimeRange parses a time range name. Empty input selects TimeRangeDay.
func ParseTimeRange(s string) (TimeRange, error) {
	switch s {
	case "", "day":
		return TimeRangeDay, nil
	case "week":
		return TimeRangeWeek, nil
	case "month":
		return TimeRangeMonth, nil
	case "year":
		return TimeRangeYear, nil
	default:
		return TimeRangeDay, fmt.Errorf("%w %q", ErrInvalidTimeRange, s)
	}
}

// String returns the name of the time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRangeDay:
		return "day"
	case TimeRangeWeek:
		return "week"
	case TimeRangeMonth:
		return "month"
	case TimeRangeYear:
		return "year"
	default:
		return "unknown"
	}
}

// Title returns the display name for a time range.
func (t TimeRange) Title() string {
	switch t {
	case TimeRangeDay:
		return "Day"
	case TimeRangeWeek:
		return "Week"
	case TimeRangeMonth:
		return "Month"
	case TimeRangeYear:
		return "Year"
	default:
		return "Unknown"
	}
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 4
}

// DateWindow is an inclusive range of calendar dates. Both bounds are
// midnight UTC.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date of d lies within the window.
func (w DateWindow) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Days returns the number of calendar days covered by the window.
func (w DateWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// String formats the window as "start..end".
func (w DateWindow) String() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}
