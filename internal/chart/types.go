// Package chart maps engagement aggregates to renderer-agnostic chart
// descriptors. The JSON shape follows Chart.js configuration objects so a web
// front end can consume it directly.
package chart

import (
	"encoding/json"
	"fmt"
)

// Type is the kind of chart a Config describes.
type Type string

// Chart types.
const (
	TypeLine Type = "line"
	TypeBar  Type = "bar"
	TypePie  Type = "pie"
)

// Mode selects how the hourly chart presents weekdays and weekends.
type Mode int

const (
	// ModeAll plots a single series averaged over all days.
	ModeAll Mode = iota
	// ModeSplit plots weekdays and weekends as separate series.
	ModeSplit
)

// ParseMode parses "all" or "split". Empty input selects ModeAll.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "all":
		return ModeAll, nil
	case "split":
		return ModeSplit, nil
	default:
		return ModeAll, fmt.Errorf("unknown chart mode %q", s)
	}
}

// String returns the name of the mode.
func (m Mode) String() string {
	if m == ModeSplit {
		return "split"
	}
	return "all"
}

// Config is a complete chart description.
type Config struct {
	Type    Type    `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Title returns the chart title, if any.
func (c Config) Title() string {
	if c.Options.Plugins.Title == nil {
		return ""
	}
	return c.Options.Plugins.Title.Text
}

// Data holds the category labels and the series plotted against them.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one plotted series.
type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BackgroundColor Colors    `json:"backgroundColor,omitempty"`
	BorderWidth     int       `json:"borderWidth,omitempty"`
	Tension         float64   `json:"tension,omitempty"`
	Fill            *bool     `json:"fill,omitempty"`
}

// Colors is a single colour or one colour per data point.
type Colors []string

// MarshalJSON encodes a single colour as a plain string.
func (c Colors) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

// Options mirrors the chart-level configuration.
type Options struct {
	Responsive          bool            `json:"responsive"`
	MaintainAspectRatio bool            `json:"maintainAspectRatio"`
	Interaction         *Interaction    `json:"interaction,omitempty"`
	Plugins             Plugins         `json:"plugins"`
	Scales              map[string]Axis `json:"scales,omitempty"`
}

// Interaction controls hover behaviour.
type Interaction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

// Plugins groups legend, title and tooltip settings.
type Plugins struct {
	Legend  *Legend  `json:"legend,omitempty"`
	Title   *Title   `json:"title,omitempty"`
	Tooltip *Tooltip `json:"tooltip,omitempty"`
}

// Legend configures the chart legend.
type Legend struct {
	Display  bool          `json:"display"`
	Position string        `json:"position,omitempty"`
	Labels   *LegendLabels `json:"labels,omitempty"`
}

// LegendLabels configures legend entries.
type LegendLabels struct {
	UsePointStyle bool `json:"usePointStyle"`
	Padding       int  `json:"padding"`
}

// Title is a chart or axis title.
type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
	Font    *Font  `json:"font,omitempty"`
}

// Font describes title typography.
type Font struct {
	Size   int    `json:"size"`
	Weight string `json:"weight"`
}

// Tooltip configures hover tooltips. LabelFormat is a fmt verb string
// applied to the series or slice label and the value.
type Tooltip struct {
	Mode        string `json:"mode,omitempty"`
	Intersect   bool   `json:"intersect"`
	LabelFormat string `json:"labelFormat,omitempty"`
}

// FormatLabel renders a tooltip line for a label and value.
func (t Tooltip) FormatLabel(label string, value float64) string {
	if t.LabelFormat == "" {
		return fmt.Sprintf("%s: %g", label, value)
	}
	return fmt.Sprintf(t.LabelFormat, label, value)
}

// Axis configures one chart axis.
type Axis struct {
	BeginAtZero bool  `json:"beginAtZero,omitempty"`
	Title       Title `json:"title"`
	Grid        Grid  `json:"grid"`
}

// Grid configures axis grid lines.
type Grid struct {
	Color string `json:"color"`
}
