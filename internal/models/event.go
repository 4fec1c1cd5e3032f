package models

import "time"

// RawEvent is a single user interaction as recorded by the event source.
type RawEvent struct {
	ArtistID  int64
	UserID    int64
	EventType string
	CreatedAt int64 // epoch milliseconds, UTC
}

// CreatedTime returns CreatedAt as a UTC time truncated to the second.
func (e RawEvent) CreatedTime() time.Time {
	return time.Unix(e.CreatedAt/1000, 0).UTC()
}

// User is the subset of a listener profile needed to localize events.
type User struct {
	ID       int64
	Timezone string
}

// Artist identifies an artist and its display name.
type Artist struct {
	ID   int64
	Name string
}

// EventRecord is a raw event joined with its artist name and the user's timezone.
type EventRecord struct {
	RawEvent
	ArtistName string
	Timezone   string
}

// ScoredLocalEvent is an event projected into the user's local time and scored.
type ScoredLocalEvent struct {
	EventDate       time.Time // local calendar date, midnight UTC
	UTCDate         time.Time // UTC calendar date, midnight UTC
	ArtistName      string
	ArtistID        int64
	LocalHour       int
	DayOfWeek       int
	EngagementScore int
	EventType       EventType
}

// ArtistReach summarizes visits and distinct listeners for an artist.
type ArtistReach struct {
	ArtistName         string
	ArtistID           int64
	TotalVisitDuration int64 // milliseconds
	UniqueSessionUsers int
}

// VisitDuration returns TotalVisitDuration as a time.Duration.
func (a ArtistReach) VisitDuration() time.Duration {
	return time.Duration(a.TotalVisitDuration) * time.Millisecond
}
