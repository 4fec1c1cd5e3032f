package engagement

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/artist-engagement/internal/models"
)

// ReportInput is the aggregated feed for a set of artists. Hourly rows may
// come from Aggregate or from a data source that groups events itself.
type ReportInput struct {
	Artists    []models.Artist
	Hourly     []models.EngagementAggregate
	EventTypes []models.EventTypeAggregate
}

// ArtistReport is the presentation-ready analytics for a single artist.
type ArtistReport struct {
	Artist     models.Artist
	Day        models.DayAggregation
	Weekday    [models.DaysPerWeek]float64
	EventTypes []models.EventTypeAggregate
	Events     int
}

// Prepare localizes records and aggregates them into a ReportInput.
// Hourly rows are grouped by local date as well when window is non-nil.
func (e *Engine) Prepare(records []models.EventRecord, artists []models.Artist, window *models.DateWindow) (ReportInput, LocalizeStats) {
	scored, stats := e.Localize(records, window)
	return ReportInput{
		Artists:    artists,
		Hourly:     Aggregate(scored, window != nil),
		EventTypes: e.EventTypeBreakdown(scored),
	}, stats
}

// BuildReports produces one report per artist, ordered with SortArtists.
// Artists present in the rows but missing from in.Artists are included.
// Each artist is aggregated independently, in parallel.
func BuildReports(ctx context.Context, in ReportInput) ([]ArtistReport, error) {
	hourly := make(map[int64][]models.EngagementAggregate)
	types := make(map[int64][]models.EventTypeAggregate)
	known := make(map[int64]bool, len(in.Artists))
	artists := make([]models.Artist, 0, len(in.Artists))

	for _, a := range in.Artists {
		if known[a.ID] {
			continue
		}
		known[a.ID] = true
		artists = append(artists, a)
	}
	for _, r := range in.Hourly {
		hourly[r.ArtistID] = append(hourly[r.ArtistID], r)
		if !known[r.ArtistID] {
			known[r.ArtistID] = true
			artists = append(artists, models.Artist{ID: r.ArtistID, Name: r.ArtistName})
		}
	}
	for _, t := range in.EventTypes {
		types[t.ArtistID] = append(types[t.ArtistID], t)
		if !known[t.ArtistID] {
			known[t.ArtistID] = true
			artists = append(artists, models.Artist{ID: t.ArtistID, Name: t.ArtistName})
		}
	}

	artists = SortArtists(artists)
	reports := make([]ArtistReport, len(artists))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, a := range artists {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows := hourly[a.ID]
			breakdown := types[a.ID]
			SortEventTypes(breakdown)

			events := 0
			for _, r := range rows {
				events += r.EventCount
			}
			reports[i] = ArtistReport{
				Artist:     a,
				Day:        ToDayAggregation(rows),
				Weekday:    WeekdayTotals(rows),
				EventTypes: breakdown,
				Events:     events,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// FindReport returns the report for the named artist.
func FindReport(reports []ArtistReport, name string) (ArtistReport, bool) {
	for _, r := range reports {
		if r.Artist.Name == name {
			return r, true
		}
	}
	return ArtistReport{}, false
}
