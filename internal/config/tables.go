package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/j-veylop/artist-engagement/internal/chart"
	"github.com/j-veylop/artist-engagement/internal/engagement"
	"github.com/j-veylop/artist-engagement/internal/models"
)

// Tables overrides the built-in lookup tables. It is read from the YAML file
// named by TABLES_PATH:
//
//	timezones:
//	  America/New_York: -4
//	weights:
//	  share_track: 5
//	palette: ["#FF6384", "#36A2EB"]
//	day_names: [Sun, Mon, Tue, Wed, Thu, Fri, Sat]
//
// A timezones section replaces the offset table. Weights are merged over the
// defaults.
type Tables struct {
	Timezones map[string]int `yaml:"timezones"`
	Weights   map[string]int `yaml:"weights"`
	Palette   []string       `yaml:"palette"`
	DayNames  []string       `yaml:"day_names"`
}

// LoadTables reads and validates a lookup table file.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables file: %w", err)
	}
	return ParseTables(data)
}

// ParseTables decodes and validates YAML lookup tables.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tables file: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Tables) validate() error {
	for name, offset := range t.Timezones {
		if offset < -12 || offset > 14 {
			return fmt.Errorf("timezone %q: offset %d outside -12..14", name, offset)
		}
	}
	for name, w := range t.Weights {
		if _, ok := models.ParseEventType(name); !ok {
			return fmt.Errorf("weights: unknown event type %q", name)
		}
		if w < 0 {
			return fmt.Errorf("weights: %q must not be negative", name)
		}
	}
	for _, c := range t.Palette {
		if len(c) != 7 || c[0] != '#' {
			return fmt.Errorf("palette: %q is not a #rrggbb colour", c)
		}
	}
	if len(t.DayNames) != 0 && len(t.DayNames) != models.DaysPerWeek {
		return fmt.Errorf("day_names: need %d names, got %d", models.DaysPerWeek, len(t.DayNames))
	}
	return nil
}

// Offsets returns the timezone offset table, or nil to keep the defaults.
func (t *Tables) Offsets() engagement.OffsetTable {
	if t == nil || len(t.Timezones) == 0 {
		return nil
	}
	return engagement.OffsetTable(t.Timezones)
}

// WeightTable returns the default weights with any overrides applied.
func (t *Tables) WeightTable() engagement.WeightTable {
	weights := engagement.DefaultWeights()
	if t == nil {
		return weights
	}
	for name, w := range t.Weights {
		if et, ok := models.ParseEventType(name); ok {
			weights[et] = w
		}
	}
	return weights
}

// Theme returns the default chart theme with any overrides applied.
func (t *Tables) Theme() chart.Theme {
	theme := chart.DefaultTheme()
	if t == nil {
		return theme
	}
	if len(t.Palette) > 0 {
		theme.Palette = append([]string(nil), t.Palette...)
	}
	if len(t.DayNames) == models.DaysPerWeek {
		copy(theme.DayNames[:], t.DayNames)
	}
	return theme
}
