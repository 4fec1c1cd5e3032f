package db

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/j-veylop/artist-engagement/internal/models"
)

// SeedOptions controls the shape of generated demo data.
type SeedOptions struct {
	Now       time.Time
	Timezones []string
	Artists   int
	Users     int
	Events    int
	Sessions  int
	Days      int
	Seed      uint64
}

// DefaultSeedOptions returns a small, deterministic data set.
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		Now: time.Now().UTC(),
		Timezones: []string{
			"America/New_York",
			"America/Los_Angeles",
			"Europe/London",
			"Asia/Tokyo",
			"Australia/Sydney",
			"Africa/Johannesburg",
			"America/Chicago",
		},
		Artists:  5,
		Users:    40,
		Events:   2000,
		Sessions: 120,
		Days:     60,
		Seed:     1,
	}
}

// SeedSummary reports how many rows Seed wrote.
type SeedSummary struct {
	Artists  int
	Users    int
	Events   int
	Sessions int
	Visits   int
}

// seedEventTypes is biased towards plays. "view_profile" is stored but
// carries no engagement weight.
var seedEventTypes = []string{
	"play_track", "play_track", "play_track", "play_track",
	"like_track", "like_track",
	"add_track_to_playlist",
	"share_track",
	"view_profile",
}

// Seed writes generated artists, users, events, sessions and visits.
func (db *DB) Seed(ctx context.Context, opts SeedOptions) (SeedSummary, error) {
	var sum SeedSummary
	if opts.Artists <= 0 || opts.Users <= 0 || len(opts.Timezones) == 0 {
		return sum, fmt.Errorf("seed needs at least one artist, user and timezone")
	}
	days := max(opts.Days, 1)
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	for i := 1; i <= opts.Artists; i++ {
		if err := db.InsertArtist(ctx, models.Artist{ID: int64(i), Name: fmt.Sprintf("Artist %d", i)}); err != nil {
			return sum, err
		}
		sum.Artists++
	}

	for i := 1; i <= opts.Users; i++ {
		tz := opts.Timezones[rng.IntN(len(opts.Timezones))]
		if err := db.InsertUser(ctx, models.User{ID: int64(i), Timezone: tz}); err != nil {
			return sum, err
		}
		sum.Users++
	}

	span := int64(days) * int64(24*time.Hour/time.Millisecond)
	end := opts.Now.UnixMilli()
	events := make([]models.RawEvent, opts.Events)
	for i := range events {
		events[i] = models.RawEvent{
			ArtistID:  int64(1 + rng.IntN(opts.Artists)),
			UserID:    int64(1 + rng.IntN(opts.Users)),
			EventType: seedEventTypes[rng.IntN(len(seedEventTypes))],
			CreatedAt: end - rng.Int64N(span),
		}
	}
	if err := db.InsertEvents(ctx, events); err != nil {
		return sum, err
	}
	sum.Events = len(events)

	for s := 1; s <= opts.Sessions; s++ {
		if err := db.InsertSession(ctx, int64(s), int64(1+rng.IntN(opts.Users))); err != nil {
			return sum, err
		}
		sum.Sessions++

		for range 1 + rng.IntN(3) {
			start := end - rng.Int64N(span)
			length := int64(30_000 + rng.IntN(600_000))
			if err := db.InsertVisit(ctx, int64(1+rng.IntN(opts.Artists)), int64(s), start, start+length); err != nil {
				return sum, err
			}
			sum.Visits++
		}
	}

	return sum, nil
}
