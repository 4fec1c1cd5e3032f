package engagement

import (
	"fmt"
	"time"

	"github.com/j-veylop/artist-engagement/internal/models"
)

// DateBasis selects which calendar date of an event a window is matched against.
type DateBasis int

const (
	// DateBasisUTC matches the event's UTC calendar date.
	DateBasisUTC DateBasis = iota
	// DateBasisLocal matches the event's date in the listener's timezone.
	DateBasisLocal
)

// ParseDateBasis parses "utc" or "local". Empty input selects DateBasisUTC.
func ParseDateBasis(s string) (DateBasis, error) {
	switch s {
	case "", "utc":
		return DateBasisUTC, nil
	case "local":
		return DateBasisLocal, nil
	default:
		return DateBasisUTC, fmt.Errorf("unknown date basis %q", s)
	}
}

// String returns the name of the date basis.
func (b DateBasis) String() string {
	if b == DateBasisLocal {
		return "local"
	}
	return "utc"
}

// ComputeWindow returns the inclusive calendar window for a historical query,
// or nil when mode does not restrict history.
func ComputeWindow(mode models.ViewMode, tr models.TimeRange, ref time.Time) *models.DateWindow {
	if mode != models.ViewModeHistorical {
		return nil
	}

	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	switch tr {
	case models.TimeRangeWeek:
		start := day.AddDate(0, 0, -int(day.Weekday()))
		return &models.DateWindow{Start: start, End: start.AddDate(0, 0, 6)}
	case models.TimeRangeMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return &models.DateWindow{Start: start, End: start.AddDate(0, 1, -1)}
	case models.TimeRangeYear:
		return &models.DateWindow{
			Start: time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	default:
		return &models.DateWindow{Start: day, End: day}
	}
}
