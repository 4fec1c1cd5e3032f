package models

import "time"

// HoursPerDay is the number of local hour buckets.
const HoursPerDay = 24

// DaysPerWeek is the number of day-of-week buckets (0=Sunday..6=Saturday).
const DaysPerWeek = 7

// EngagementAggregate is the sum and count of scored events for one
// (artist, local hour, day of week[, date]) group.
type EngagementAggregate struct {
	EventDate       time.Time // zero unless grouped by date
	ArtistName      string
	ArtistID        int64
	LocalHour       int
	DayOfWeek       int
	TotalEngagement int
	EventCount      int
}

// Mean returns the average engagement score of the group.
func (a EngagementAggregate) Mean() float64 {
	if a.EventCount <= 0 {
		return 0
	}
	return float64(a.TotalEngagement) / float64(a.EventCount)
}

// IsWeekend reports whether the group falls on Saturday or Sunday.
func (a EngagementAggregate) IsWeekend() bool {
	return a.DayOfWeek == 0 || a.DayOfWeek == 6
}

// DayAggregation holds per-hour average engagement split by day kind.
type DayAggregation struct {
	Weekday [HoursPerDay]float64 `json:"weekday"`
	Weekend [HoursPerDay]float64 `json:"weekend"`
	AllDays [HoursPerDay]float64 `json:"allDays"`
}

// PeakHour returns the hour with the highest all-days average.
func (d DayAggregation) PeakHour() (hour int, value float64) {
	for h, v := range d.AllDays {
		if v > value {
			hour, value = h, v
		}
	}
	return hour, value
}

// EventTypeAggregate counts one artist's events of a single type.
type EventTypeAggregate struct {
	ArtistName    string    `json:"artistName"`
	ArtistID      int64     `json:"artistId"`
	EventType     EventType `json:"eventType"`
	Count         int       `json:"count"`
	Weight        int       `json:"weight"`
	WeightedCount int       `json:"weightedCount"`
}
