package analytics

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/j-veylop/artist-engagement/internal/chart"
	"github.com/j-veylop/artist-engagement/internal/config"
	"github.com/j-veylop/artist-engagement/internal/db"
	"github.com/j-veylop/artist-engagement/internal/engagement"
	"github.com/j-veylop/artist-engagement/internal/models"
)

func ms(s string) int64 {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return ts.UnixMilli()
}

// newFixtureStore creates a database at path holding three artists. Artist 3
// has no events.
func newFixtureStore(t *testing.T, path string) *db.DB {
	t.Helper()
	store, err := db.New(path)
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	for i, name := range []string{"Artist 1", "Artist 2", "Artist 3"} {
		if err := store.InsertArtist(ctx, models.Artist{ID: int64(i + 1), Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	for _, u := range []models.User{
		{ID: 1, Timezone: "America/New_York"},
		{ID: 2, Timezone: "Asia/Tokyo"},
		{ID: 3, Timezone: "Mars/Olympus_Mons"},
	} {
		if err := store.InsertUser(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
	err = store.InsertEvents(ctx, []models.RawEvent{
		{ArtistID: 1, UserID: 1, EventType: "play_track", CreatedAt: ms("2024-01-10T02:00:00Z")},
		{ArtistID: 1, UserID: 1, EventType: "play_track", CreatedAt: ms("2024-01-10T02:30:00Z")},
		{ArtistID: 1, UserID: 1, EventType: "like_track", CreatedAt: ms("2024-01-10T03:00:00Z")},
		{ArtistID: 1, UserID: 2, EventType: "share_track", CreatedAt: ms("2024-01-10T02:00:00Z")},
		{ArtistID: 1, UserID: 1, EventType: "like_track", CreatedAt: ms("2024-01-13T15:00:00Z")},
		{ArtistID: 2, UserID: 2, EventType: "add_track_to_playlist", CreatedAt: ms("2024-01-14T20:00:00Z")},
		{ArtistID: 2, UserID: 3, EventType: "play_track", CreatedAt: ms("2024-01-14T20:00:00Z")},
		{ArtistID: 2, UserID: 1, EventType: "view_profile", CreatedAt: ms("2024-01-14T20:00:00Z")},
		{ArtistID: 2, UserID: 1, EventType: "share_track", CreatedAt: ms("2024-03-11T00:00:00Z")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.InsertSession(ctx, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := store.InsertVisit(ctx, 2, 1, 0, 60_000); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestParseQuery(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		args    [4]string
		want    Query
		wantErr error
	}{
		{"Defaults", [4]string{}, Query{Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)}, nil},
		{
			"Historical",
			[4]string{"historical", "week", "2024-01-10", "split"},
			Query{
				Date:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
				ViewMode:  models.ViewModeHistorical,
				TimeRange: models.TimeRangeWeek,
				ChartMode: chart.ModeSplit,
			},
			nil,
		},
		{"BadViewMode", [4]string{"live"}, Query{}, models.ErrInvalidViewMode},
		{"BadRange", [4]string{"", "decade"}, Query{}, models.ErrInvalidTimeRange},
		{"BadDate", [4]string{"", "", "10/01/2024"}, Query{}, models.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuery(tt.args[0], tt.args[1], tt.args[2], tt.args[3], now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseQuery() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQuery() failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQuery() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := ParseQuery("", "", "", "stacked", now); err == nil {
		t.Error("ParseQuery() should reject an unknown chart mode")
	}
}

func TestQuery_Window(t *testing.T) {
	q := Query{Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}
	if q.Window() != nil {
		t.Error("average view should have no window")
	}

	q.ViewMode = models.ViewModeHistorical
	q.TimeRange = models.TimeRangeWeek
	if w := q.Window(); w == nil || w.String() != "2024-01-07..2024-01-13" {
		t.Errorf("Window() = %v", w)
	}
}

func TestBuild_Core(t *testing.T) {
	store := newFixtureStore(t, filepath.Join(t.TempDir(), "events.db"))
	svc := New(store, Options{})

	d, err := svc.Build(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if d.Source != config.SourceCore || d.Window != nil {
		t.Errorf("Source/Window = %v/%v", d.Source, d.Window)
	}
	wantStats := engagement.LocalizeStats{Total: 9, Accepted: 7, UnknownType: 1, UnresolvedTimezone: 1}
	if d.Stats != wantStats {
		t.Errorf("Stats = %+v, want %+v", d.Stats, wantStats)
	}

	if len(d.Reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(d.Reports))
	}
	a1 := d.Reports[0]
	if a1.Artist.Name != "Artist 1" || a1.Events != 5 {
		t.Fatalf("first report = %s with %d events", a1.Artist.Name, a1.Events)
	}
	if a1.Day.Weekday[22] != 1.0 || a1.Day.Weekday[23] != 2.0 || a1.Day.Weekend[11] != 2.0 || a1.Day.AllDays[11] != 2.5 {
		t.Errorf("Artist 1 day aggregation = %+v", a1.Day)
	}
	if a1.Weekday != [7]float64{0, 0, 4, 3, 0, 0, 2} {
		t.Errorf("Artist 1 weekday totals = %v", a1.Weekday)
	}
	wantTypes := []models.EventType{models.EventTypeLikeTrack, models.EventTypeShareTrack, models.EventTypePlayTrack}
	for i, et := range wantTypes {
		if a1.EventTypes[i].EventType != et {
			t.Errorf("Artist 1 event type %d = %v, want %v", i, a1.EventTypes[i].EventType, et)
		}
	}

	if d.Reports[2].Artist.Name != "Artist 3" || d.Reports[2].Events != 0 {
		t.Errorf("artists without events should still be reported: %+v", d.Reports[2])
	}
	if len(d.Reach) != 3 || d.Reach[0].ArtistName != "Artist 2" || d.Reach[0].UniqueSessionUsers != 1 {
		t.Errorf("Reach = %+v", d.Reach)
	}
}

func TestBuild_SourcesAgree(t *testing.T) {
	store := newFixtureStore(t, filepath.Join(t.TempDir(), "events.db"))
	ref := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	queries := map[string]Query{
		"average": {Date: ref},
		"day":     {Date: ref, ViewMode: models.ViewModeHistorical, TimeRange: models.TimeRangeDay},
		"week":    {Date: ref, ViewMode: models.ViewModeHistorical, TimeRange: models.TimeRangeWeek},
		"year":    {Date: ref, ViewMode: models.ViewModeHistorical, TimeRange: models.TimeRangeYear},
	}

	for _, basis := range []engagement.DateBasis{engagement.DateBasisUTC, engagement.DateBasisLocal} {
		core := New(store, Options{Source: config.SourceCore, DateBasis: basis})
		inSQL := New(store, Options{Source: config.SourceSQL, DateBasis: basis})

		for name, q := range queries {
			t.Run(basis.String()+"/"+name, func(t *testing.T) {
				want, err := core.Build(context.Background(), q)
				if err != nil {
					t.Fatalf("core Build() failed: %v", err)
				}
				got, err := inSQL.Build(context.Background(), q)
				if err != nil {
					t.Fatalf("sql Build() failed: %v", err)
				}
				if !reflect.DeepEqual(got.Reports, want.Reports) {
					t.Errorf("sql reports differ from core reports\ngot:  %+v\nwant: %+v", got.Reports, want.Reports)
				}
			})
		}
	}
}

func TestBuild_ArtistFilter(t *testing.T) {
	store := newFixtureStore(t, filepath.Join(t.TempDir(), "events.db"))
	svc := New(store, Options{})

	d, err := svc.Build(context.Background(), Query{Artist: "Artist 2"})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if len(d.Reports) != 1 || d.Reports[0].Artist.Name != "Artist 2" {
		t.Errorf("Reports = %+v", d.Reports)
	}
	if len(d.Reach) != 1 || d.Reach[0].ArtistName != "Artist 2" {
		t.Errorf("Reach = %+v", d.Reach)
	}

	_, err = svc.Build(context.Background(), Query{Artist: "Artist 99"})
	if !errors.Is(err, ErrUnknownArtist) {
		t.Errorf("Build() error = %v, want ErrUnknownArtist", err)
	}
}

func TestBuild_CustomTables(t *testing.T) {
	store := newFixtureStore(t, filepath.Join(t.TempDir(), "events.db"))
	tables, err := config.ParseTables([]byte("timezones:\n  Mars/Olympus_Mons: 0\nweights:\n  play_track: 10\n"))
	if err != nil {
		t.Fatal(err)
	}

	for _, source := range []config.Source{config.SourceCore, config.SourceSQL} {
		t.Run(string(source), func(t *testing.T) {
			d, err := New(store, Options{Tables: tables, Source: source}).Build(context.Background(), Query{Artist: "Artist 2"})
			if err != nil {
				t.Fatalf("Build() failed: %v", err)
			}
			r := d.Reports[0]
			if r.Events != 1 || r.Day.Weekend[20] != 10 {
				t.Errorf("only the Mars listener should count: %+v", r)
			}
		})
	}
}

type failingStore struct {
	err error
}

func (f *failingStore) Artists(context.Context) ([]models.Artist, error) { return nil, f.err }
func (f *failingStore) ArtistReach(context.Context) ([]models.ArtistReach, error) {
	return nil, f.err
}
func (f *failingStore) EventRecords(context.Context, *models.DateWindow) ([]models.EventRecord, error) {
	return nil, f.err
}
func (f *failingStore) HourlyEngagement(context.Context, db.Tables, *models.DateWindow) ([]models.EngagementAggregate, error) {
	return nil, f.err
}
func (f *failingStore) EventTypeCounts(context.Context, db.Tables, *models.DateWindow) ([]models.EventTypeAggregate, error) {
	return nil, f.err
}

func TestBuild_FetchError(t *testing.T) {
	cause := errors.New("disk on fire")
	svc := New(&failingStore{err: cause}, Options{})

	_, err := svc.Build(context.Background(), Query{})
	if !errors.Is(err, ErrFetchData) {
		t.Errorf("Build() error = %v, want ErrFetchData", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Build() error should keep its cause, got %v", err)
	}
}

func TestCharts(t *testing.T) {
	store := newFixtureStore(t, filepath.Join(t.TempDir(), "events.db"))
	svc := New(store, Options{})

	d, err := svc.Build(context.Background(), Query{ChartMode: chart.ModeSplit})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	charts := svc.Charts(d)
	if len(charts) != len(d.Reports) {
		t.Fatalf("Charts() returned %d entries, want %d", len(charts), len(d.Reports))
	}

	c := charts[0]
	if c.Artist != "Artist 1" || c.Hourly.Title() != "Hourly Engagement Pattern for Artist 1" {
		t.Errorf("hourly chart = %s / %q", c.Artist, c.Hourly.Title())
	}
	if len(c.Hourly.Data.Datasets) != 2 {
		t.Errorf("split mode should give 2 series, got %d", len(c.Hourly.Data.Datasets))
	}
	if c.Daily.Data.Datasets[0].Data[2] != 4 {
		t.Errorf("daily Tuesday total = %v", c.Daily.Data.Datasets[0].Data[2])
	}
	if len(c.EventTypes.Data.Labels) != 3 || c.EventTypes.Data.Labels[0] != "Like Track" {
		t.Errorf("event type labels = %v", c.EventTypes.Data.Labels)
	}
}
