package chart

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/j-veylop/artist-engagement/internal/models"
)

func sampleDay() models.DayAggregation {
	var d models.DayAggregation
	for h := range models.HoursPerDay {
		d.Weekday[h] = float64(h)
		d.Weekend[h] = float64(24 - h)
		d.AllDays[h] = 12
	}
	return d
}

func TestHourLabels(t *testing.T) {
	labels := HourLabels()
	if len(labels) != 24 {
		t.Fatalf("HourLabels() returned %d labels, want 24", len(labels))
	}
	if labels[0] != "00:00" || labels[9] != "09:00" || labels[23] != "23:00" {
		t.Errorf("HourLabels() = %v", labels)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAll, false},
		{"all", ModeAll, false},
		{"split", ModeSplit, false},
		{"stacked", ModeAll, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}

func TestBuilder_HourlyAll(t *testing.T) {
	b := NewBuilder(DefaultTheme())
	cfg := b.Hourly("Artist 1", sampleDay(), ModeAll)

	if cfg.Type != TypeLine {
		t.Errorf("Type = %q, want line", cfg.Type)
	}
	if len(cfg.Data.Datasets) != 1 {
		t.Fatalf("expected 1 dataset, got %d", len(cfg.Data.Datasets))
	}
	ds := cfg.Data.Datasets[0]
	if ds.Label != "All" || len(ds.Data) != 24 || ds.Data[5] != 12 {
		t.Errorf("dataset = %+v", ds)
	}
	if ds.BorderColor != "#FFCE56" || ds.BackgroundColor[0] != "#FFCE5633" {
		t.Errorf("colours = %s / %v", ds.BorderColor, ds.BackgroundColor)
	}
	if ds.BorderWidth != 2 || ds.Tension != 0.4 || ds.Fill == nil || *ds.Fill {
		t.Errorf("line style = %+v", ds)
	}
	if cfg.Title() != "Hourly Engagement Pattern for Artist 1" {
		t.Errorf("Title() = %q", cfg.Title())
	}
	if len(cfg.Data.Labels) != 24 {
		t.Errorf("labels = %d, want 24", len(cfg.Data.Labels))
	}
}

func TestBuilder_HourlySplit(t *testing.T) {
	b := NewBuilder(DefaultTheme())
	cfg := b.Hourly("Artist 1", sampleDay(), ModeSplit)

	if len(cfg.Data.Datasets) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(cfg.Data.Datasets))
	}
	weekday, weekend := cfg.Data.Datasets[0], cfg.Data.Datasets[1]
	if weekday.Label != "Weekdays" || weekday.BorderColor != "#36A2EB" || weekday.Data[3] != 3 {
		t.Errorf("weekday dataset = %+v", weekday)
	}
	if weekend.Label != "Weekends" || weekend.BorderColor != "#FF6384" || weekend.Data[3] != 21 {
		t.Errorf("weekend dataset = %+v", weekend)
	}
}

func TestBuilder_Daily(t *testing.T) {
	b := NewBuilder(DefaultTheme())
	totals := [7]float64{1, 2, 3, 4, 5, 6, 7}
	cfg := b.Daily("Artist 2", totals)

	if cfg.Type != TypeBar {
		t.Errorf("Type = %q, want bar", cfg.Type)
	}
	want := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	for i, name := range want {
		if cfg.Data.Labels[i] != name {
			t.Errorf("label %d = %q, want %q", i, cfg.Data.Labels[i], name)
		}
	}
	ds := cfg.Data.Datasets[0]
	if len(ds.Data) != 7 || ds.Data[6] != 7 {
		t.Errorf("data = %v", ds.Data)
	}
	if ds.BackgroundColor[0] != "#e2e8f0" || ds.BorderColor != "#64748b" || ds.BorderWidth != 1 {
		t.Errorf("bar style = %+v", ds)
	}
	if cfg.Options.Plugins.Legend == nil || cfg.Options.Plugins.Legend.Display {
		t.Error("daily chart should hide its legend")
	}

	cfg.Data.Labels[0] = "Domingo"
	if b.Theme().DayNames[0] != "Sunday" {
		t.Error("mutating chart labels should not change the theme")
	}
}

func TestBuilder_EventTypes(t *testing.T) {
	b := NewBuilder(DefaultTheme())
	types := []models.EventTypeAggregate{
		{EventType: models.EventTypeShareTrack, Count: 4, Weight: 3, WeightedCount: 12},
		{EventType: models.EventTypePlayTrack, Count: 10, Weight: 1, WeightedCount: 10},
		{EventType: models.EventTypeAddTrackToPlaylist, Count: 2, Weight: 2, WeightedCount: 4},
	}
	cfg := b.EventTypes("Artist 3", types)

	if cfg.Type != TypePie {
		t.Errorf("Type = %q, want pie", cfg.Type)
	}
	wantLabels := []string{"Share Track", "Play Track", "Add to Playlist"}
	for i, l := range wantLabels {
		if cfg.Data.Labels[i] != l {
			t.Errorf("label %d = %q, want %q", i, cfg.Data.Labels[i], l)
		}
	}
	ds := cfg.Data.Datasets[0]
	if len(ds.BackgroundColor) != 3 {
		t.Errorf("expected 3 slice colours, got %v", ds.BackgroundColor)
	}
	if ds.BackgroundColor[0] != "#FF6384" || ds.BackgroundColor[2] != "#FFCE56" {
		t.Errorf("slice colours = %v", ds.BackgroundColor)
	}
	if ds.Data[0] != 12 || ds.Data[2] != 4 {
		t.Errorf("slice values = %v", ds.Data)
	}
	if cfg.Options.Scales != nil {
		t.Error("pie chart should not have scales")
	}
}

func TestBuilder_EventTypesEmpty(t *testing.T) {
	cfg := NewBuilder(DefaultTheme()).EventTypes("Artist 3", nil)
	if len(cfg.Data.Labels) != 0 || len(cfg.Data.Datasets[0].Data) != 0 {
		t.Errorf("empty breakdown should give an empty pie, got %+v", cfg.Data)
	}
}

func TestTheme_Colors(t *testing.T) {
	theme := DefaultTheme()
	if got := theme.Colors(4); len(got) != 4 || got[3] != "#4BC0C0" {
		t.Errorf("Colors(4) = %v", got)
	}
	if got := theme.Colors(9); len(got) != 9 || got[7] != "#FF6384" {
		t.Errorf("Colors(9) should wrap, got %v", got)
	}
	if got := (Theme{}).Color(3); got != "#000000" {
		t.Errorf("empty palette Color() = %q", got)
	}

	c := theme.Colors(2)
	c[0] = "#000000"
	if theme.Palette[0] != "#FF6384" {
		t.Error("Colors() should return a copy")
	}
}

func TestTooltip_FormatLabel(t *testing.T) {
	tip := HourlyOptions(DefaultTheme()).Plugins.Tooltip
	if got := tip.FormatLabel("Weekdays", 2.345); got != "Weekdays: 2.3 points" {
		t.Errorf("FormatLabel() = %q", got)
	}
	if got := (Tooltip{}).FormatLabel("x", 1.5); got != "x: 1.5" {
		t.Errorf("default FormatLabel() = %q", got)
	}
}

func TestConfig_JSON(t *testing.T) {
	b := NewBuilder(DefaultTheme())
	cfg := b.Hourly("Artist 1", sampleDay(), ModeAll)

	raw, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("json.Marshal() failed: %v", err)
	}
	body := string(raw)
	for _, want := range []string{
		`"type":"line"`,
		`"backgroundColor":"#FFCE5633"`,
		`"fill":false`,
		`"maintainAspectRatio":false`,
		`"text":"Hour of Day (Local Time)"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("JSON missing %s", want)
		}
	}

	pie, _ := json.Marshal(b.EventTypes("Artist 1", []models.EventTypeAggregate{
		{EventType: models.EventTypeShareTrack, WeightedCount: 3},
		{EventType: models.EventTypePlayTrack, WeightedCount: 1},
	}))
	if !strings.Contains(string(pie), `"backgroundColor":["#FF6384","#36A2EB"]`) {
		t.Errorf("pie colours should encode as an array: %s", pie)
	}
}
