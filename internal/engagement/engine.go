package engagement

import (
	"github.com/j-veylop/artist-engagement/internal/models"
)

// Engine localizes and scores raw event records.
type Engine struct {
	resolver *Resolver
	scorer   *Scorer
	basis    DateBasis
}

// Option configures an Engine.
type Option func(*Engine)

// WithOffsets replaces the timezone offset table.
func WithOffsets(offsets OffsetTable) Option {
	return func(e *Engine) { e.resolver = NewResolver(offsets) }
}

// WithWeights replaces the event weight table.
func WithWeights(weights WeightTable) Option {
	return func(e *Engine) { e.scorer = NewScorer(weights) }
}

// WithDateBasis selects the date a historical window is matched against.
func WithDateBasis(basis DateBasis) Option {
	return func(e *Engine) { e.basis = basis }
}

// NewEngine creates an engine with the built-in tables unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		resolver: NewResolver(nil),
		scorer:   NewScorer(nil),
		basis:    DateBasisUTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolver returns the engine's timezone resolver.
func (e *Engine) Resolver() *Resolver { return e.resolver }

// Scorer returns the engine's event scorer.
func (e *Engine) Scorer() *Scorer { return e.scorer }

// DateBasis returns the date basis used for window filtering.
func (e *Engine) DateBasis() DateBasis { return e.basis }

// LocalizeStats counts how input records were disposed of.
type LocalizeStats struct {
	Total              int
	Accepted           int
	UnknownType        int
	UnresolvedTimezone int
	OutsideWindow      int
}

// Excluded returns the number of records that did not make it into the result.
func (s LocalizeStats) Excluded() int {
	return s.UnknownType + s.UnresolvedTimezone + s.OutsideWindow
}

// Localize projects each record into its listener's local time and scores it.
// Records with an event type outside the allow-list, or whose listener's
// timezone is not in the offset table, are dropped. When window is non-nil
// only records whose date (per the engine's DateBasis) falls inside it are kept.
func (e *Engine) Localize(records []models.EventRecord, window *models.DateWindow) ([]models.ScoredLocalEvent, LocalizeStats) {
	stats := LocalizeStats{Total: len(records)}
	out := make([]models.ScoredLocalEvent, 0, len(records))

	for _, r := range records {
		et, ok := models.ParseEventType(r.EventType)
		if !ok {
			stats.UnknownType++
			continue
		}

		offset, err := e.resolver.Resolve(r.Timezone)
		if err != nil {
			stats.UnresolvedTimezone++
			continue
		}

		utcDate := UTCDate(r.CreatedAt)
		localDate := LocalDate(r.CreatedAt, offset)
		if window != nil {
			matchDate := utcDate
			if e.basis == DateBasisLocal {
				matchDate = localDate
			}
			if !window.Contains(matchDate) {
				stats.OutsideWindow++
				continue
			}
		}

		hour, dow := Project(r.CreatedAt, offset)
		out = append(out, models.ScoredLocalEvent{
			ArtistID:        r.ArtistID,
			ArtistName:      r.ArtistName,
			LocalHour:       hour,
			DayOfWeek:       dow,
			EngagementScore: e.scorer.Score(et),
			EventType:       et,
			EventDate:       localDate,
			UTCDate:         utcDate,
		})
		stats.Accepted++
	}

	return out, stats
}

// Join inner-joins raw events with their artists and users. Events whose
// artist or user is unknown are dropped.
func Join(events []models.RawEvent, users []models.User, artists []models.Artist) []models.EventRecord {
	tz := make(map[int64]string, len(users))
	for _, u := range users {
		tz[u.ID] = u.Timezone
	}
	names := make(map[int64]string, len(artists))
	for _, a := range artists {
		names[a.ID] = a.Name
	}

	out := make([]models.EventRecord, 0, len(events))
	for _, ev := range events {
		zone, ok := tz[ev.UserID]
		if !ok {
			continue
		}
		name, ok := names[ev.ArtistID]
		if !ok {
			continue
		}
		out = append(out, models.EventRecord{RawEvent: ev, ArtistName: name, Timezone: zone})
	}
	return out
}
