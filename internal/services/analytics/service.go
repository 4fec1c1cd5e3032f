// Package analytics builds per-artist engagement dashboards from the event
// store and keeps them current in watch mode.
package analytics

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/artist-engagement/internal/chart"
	"github.com/j-veylop/artist-engagement/internal/config"
	"github.com/j-veylop/artist-engagement/internal/db"
	"github.com/j-veylop/artist-engagement/internal/engagement"
	"github.com/j-veylop/artist-engagement/internal/logger"
	"github.com/j-veylop/artist-engagement/internal/metrics"
	"github.com/j-veylop/artist-engagement/internal/models"
)

var (
	// ErrFetchData wraps every failure to read from the event store.
	ErrFetchData = errors.New("failed to fetch data")
	// ErrUnknownArtist is returned when a query names an artist with no data.
	ErrUnknownArtist = errors.New("unknown artist")
)

// Store is the event source a Service reads from. *db.DB implements it.
type Store interface {
	Artists(ctx context.Context) ([]models.Artist, error)
	ArtistReach(ctx context.Context) ([]models.ArtistReach, error)
	EventRecords(ctx context.Context, window *models.DateWindow) ([]models.EventRecord, error)
	HourlyEngagement(ctx context.Context, t db.Tables, window *models.DateWindow) ([]models.EngagementAggregate, error)
	EventTypeCounts(ctx context.Context, t db.Tables, window *models.DateWindow) ([]models.EventTypeAggregate, error)
}

// Query is one dashboard request.
type Query struct {
	Date      time.Time
	Artist    string
	ViewMode  models.ViewMode
	TimeRange models.TimeRange
	ChartMode chart.Mode
}

// ParseQuery validates raw request parameters. Empty values select the
// average view, the day range, today's date and the all-days chart.
func ParseQuery(viewMode, timeRange, date, chartMode string, now time.Time) (Query, error) {
	var q Query
	var err error
	if q.ViewMode, err = models.ParseViewMode(viewMode); err != nil {
		return q, err
	}
	if q.TimeRange, err = models.ParseTimeRange(timeRange); err != nil {
		return q, err
	}
	if q.Date, err = models.ParseDate(date, now); err != nil {
		return q, err
	}
	if q.ChartMode, err = chart.ParseMode(chartMode); err != nil {
		return q, err
	}
	return q, nil
}

// QueryFromConfig returns the query configured through the environment.
func QueryFromConfig(cfg *config.Config) Query {
	return Query{
		Date:      cfg.ReportDate,
		ViewMode:  cfg.ViewMode,
		TimeRange: cfg.TimeRange,
		ChartMode: cfg.ChartMode,
	}
}

// Window returns the calendar window the query covers, or nil for all history.
func (q Query) Window() *models.DateWindow {
	return engagement.ComputeWindow(q.ViewMode, q.TimeRange, q.Date)
}

// Dashboard is the result of one query.
type Dashboard struct {
	Window  *models.DateWindow
	Source  config.Source
	Query   Query
	Reports []engagement.ArtistReport
	Reach   []models.ArtistReach
	Stats   engagement.LocalizeStats
}

// ArtistCharts holds the chart descriptors for one artist.
type ArtistCharts struct {
	Artist     string       `json:"artist"`
	Hourly     chart.Config `json:"hourly"`
	Daily      chart.Config `json:"daily"`
	EventTypes chart.Config `json:"eventTypes"`
}

// Options configures a Service.
type Options struct {
	Tables    *config.Tables
	Source    config.Source
	DateBasis engagement.DateBasis
}

// Service turns store contents into dashboards.
type Service struct {
	store   Store
	engine  *engagement.Engine
	builder *chart.Builder
	tables  db.Tables
	source  config.Source
}

// New creates a service reading from store.
func New(store Store, opts Options) *Service {
	engineOpts := []engagement.Option{
		engagement.WithWeights(opts.Tables.WeightTable()),
		engagement.WithDateBasis(opts.DateBasis),
	}
	if offsets := opts.Tables.Offsets(); offsets != nil {
		engineOpts = append(engineOpts, engagement.WithOffsets(offsets))
	}
	engine := engagement.NewEngine(engineOpts...)

	return &Service{
		store:   store,
		engine:  engine,
		builder: chart.NewBuilder(opts.Tables.Theme()),
		tables: db.Tables{
			Offsets: engine.Resolver().Table(),
			Weights: engine.Scorer().Weights(),
			Basis:   opts.DateBasis,
		},
		source: cmp.Or(opts.Source, config.SourceCore),
	}
}

// NewFromConfig creates a service using the configured tables and source.
func NewFromConfig(store Store, cfg *config.Config) *Service {
	return New(store, Options{
		Tables:    cfg.Tables,
		Source:    cfg.AggregationSource,
		DateBasis: cfg.DateBasis,
	})
}

// Builder returns the chart builder the service uses.
func (s *Service) Builder() *chart.Builder { return s.builder }

// Build runs a query against the store. Store failures are wrapped with
// ErrFetchData.
func (s *Service) Build(ctx context.Context, q Query) (*Dashboard, error) {
	start := time.Now()
	defer metrics.ObserveBuildDuration(start)
	metrics.Builds.WithLabelValues(string(s.source)).Inc()

	d, err := s.build(ctx, q)
	if err != nil {
		if errors.Is(err, ErrFetchData) {
			metrics.BuildErrors.Inc()
			logger.Error("failed to fetch data", "source", s.source, "error", err)
		}
		return nil, err
	}

	logger.Debug("dashboard built",
		"source", s.source,
		"artists", len(d.Reports),
		"excluded", d.Stats.Excluded(),
		"duration", time.Since(start),
	)
	return d, nil
}

func (s *Service) build(ctx context.Context, q Query) (*Dashboard, error) {
	window := q.Window()
	d := &Dashboard{Query: q, Window: window, Source: s.source}

	artists, err := s.store.Artists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchData, err)
	}

	var input engagement.ReportInput
	switch s.source {
	case config.SourceSQL:
		hourly, err := s.store.HourlyEngagement(ctx, s.tables, window)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchData, err)
		}
		types, err := s.store.EventTypeCounts(ctx, s.tables, window)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchData, err)
		}
		input = engagement.ReportInput{Artists: artists, Hourly: hourly, EventTypes: types}
	default:
		records, err := s.store.EventRecords(ctx, window)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchData, err)
		}
		input, d.Stats = s.engine.Prepare(records, artists, window)
		metrics.RecordLocalizeStats(d.Stats)
		if n := d.Stats.UnresolvedTimezone; n > 0 {
			logger.Warn("events with unknown timezone excluded", "count", n)
		}
	}

	reports, err := engagement.BuildReports(ctx, input)
	if err != nil {
		return nil, err
	}
	if q.Artist != "" {
		r, ok := engagement.FindReport(reports, q.Artist)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownArtist, q.Artist)
		}
		reports = []engagement.ArtistReport{r}
	}
	d.Reports = reports

	reach, err := s.store.ArtistReach(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchData, err)
	}
	if q.Artist != "" {
		reach = filterReach(reach, q.Artist)
	}
	d.Reach = reach

	return d, nil
}

func filterReach(reach []models.ArtistReach, name string) []models.ArtistReach {
	var out []models.ArtistReach
	for _, r := range reach {
		if r.ArtistName == name {
			out = append(out, r)
		}
	}
	return out
}

// Charts builds the chart descriptors for every report in the dashboard.
func (s *Service) Charts(d *Dashboard) []ArtistCharts {
	out := make([]ArtistCharts, len(d.Reports))
	for i, r := range d.Reports {
		out[i] = ArtistCharts{
			Artist:     r.Artist.Name,
			Hourly:     s.builder.Hourly(r.Artist.Name, r.Day, d.Query.ChartMode),
			Daily:      s.builder.Daily(r.Artist.Name, r.Weekday),
			EventTypes: s.builder.EventTypes(r.Artist.Name, r.EventTypes),
		}
	}
	return out
}
