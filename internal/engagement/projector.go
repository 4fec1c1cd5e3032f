package engagement

import "time"

// Project converts a UTC epoch-millisecond timestamp into a local hour (0-23)
// and local day of week (0=Sunday..6=Saturday) for a fixed offset.
//
// The hour comes from modular arithmetic on the UTC hour while the day comes
// from the weekday of the shifted instant. The two are computed separately.
func Project(utcMillis int64, offsetHours int) (localHour, dayOfWeek int) {
	utc := time.Unix(floorDiv(utcMillis, 1000), 0).UTC()
	localHour = ((utc.Hour()+offsetHours)%24 + 24) % 24

	shifted := utc.Add(time.Duration(offsetHours) * time.Hour)
	dayOfWeek = int(shifted.Weekday())
	return localHour, dayOfWeek
}

// LocalDate returns the local calendar date of the timestamp as midnight UTC.
func LocalDate(utcMillis int64, offsetHours int) time.Time {
	shifted := time.Unix(floorDiv(utcMillis, 1000), 0).UTC().Add(time.Duration(offsetHours) * time.Hour)
	return truncateDay(shifted)
}

// UTCDate returns the UTC calendar date of the timestamp as midnight UTC.
func UTCDate(utcMillis int64) time.Time {
	return truncateDay(time.Unix(floorDiv(utcMillis, 1000), 0).UTC())
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// floorDiv divides rounding toward negative infinity so pre-1970 timestamps
// land in the right second.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
