package chart

import (
	"fmt"
	"slices"

	"github.com/j-veylop/artist-engagement/internal/models"
)

// Builder maps aggregates to chart configurations using a theme.
type Builder struct {
	theme Theme
}

// NewBuilder creates a builder for the given theme.
func NewBuilder(theme Theme) *Builder {
	return &Builder{theme: theme}
}

// Theme returns the builder's theme.
func (b *Builder) Theme() Theme { return b.theme }

// HourLabels returns "00:00" through "23:00".
func HourLabels() []string {
	labels := make([]string, models.HoursPerDay)
	for h := range labels {
		labels[h] = fmt.Sprintf("%02d:00", h)
	}
	return labels
}

func (b *Builder) lineDataset(label string, data [models.HoursPerDay]float64, color string) Dataset {
	noFill := false
	return Dataset{
		Label:           label,
		Data:            data[:],
		BorderColor:     color,
		BackgroundColor: Colors{translucent(color)},
		BorderWidth:     2,
		Tension:         0.4,
		Fill:            &noFill,
	}
}

// Hourly builds the 24-hour engagement line chart for an artist.
func (b *Builder) Hourly(artist string, agg models.DayAggregation, mode Mode) Config {
	var datasets []Dataset
	switch mode {
	case ModeSplit:
		datasets = []Dataset{
			b.lineDataset("Weekdays", agg.Weekday, b.theme.Color(1)),
			b.lineDataset("Weekends", agg.Weekend, b.theme.Color(0)),
		}
	default:
		datasets = []Dataset{
			b.lineDataset("All", agg.AllDays, b.theme.Color(2)),
		}
	}

	opts := HourlyOptions(b.theme)
	opts.Plugins.Title = chartTitle("Hourly Engagement Pattern for " + artist)
	return Config{
		Type:    TypeLine,
		Data:    Data{Labels: HourLabels(), Datasets: datasets},
		Options: opts,
	}
}

// Daily builds the day-of-week bar chart from per-day engagement totals.
func (b *Builder) Daily(artist string, totals [models.DaysPerWeek]float64) Config {
	opts := DailyOptions(b.theme)
	opts.Plugins.Title = chartTitle("Daily Engagement Pattern for " + artist)
	return Config{
		Type: TypeBar,
		Data: Data{
			Labels: slices.Clone(b.theme.DayNames[:]),
			Datasets: []Dataset{{
				Label:           "Total Engagement Score",
				Data:            totals[:],
				BackgroundColor: Colors{b.theme.BarFill},
				BorderColor:     b.theme.BarBorder,
				BorderWidth:     1,
			}},
		},
		Options: opts,
	}
}

// EventTypes builds the pie chart of weighted counts per event type.
func (b *Builder) EventTypes(artist string, types []models.EventTypeAggregate) Config {
	labels := make([]string, len(types))
	values := make([]float64, len(types))
	for i, t := range types {
		labels[i] = t.EventType.Label()
		values[i] = float64(t.WeightedCount)
	}

	opts := PieOptions()
	opts.Plugins.Title = chartTitle("Engagement by Event Type for " + artist)
	return Config{
		Type: TypePie,
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Data:            values,
				BackgroundColor: Colors(b.theme.Colors(len(types))),
				BorderWidth:     1,
			}},
		},
		Options: opts,
	}
}
