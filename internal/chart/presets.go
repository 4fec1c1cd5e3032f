package chart

func baseOptions() Options {
	return Options{
		Responsive:          true,
		MaintainAspectRatio: false,
		Interaction:         &Interaction{Mode: "index", Intersect: false},
		Plugins: Plugins{
			Tooltip: &Tooltip{Mode: "index", Intersect: false},
		},
	}
}

func axis(title, gridColor string, beginAtZero bool) Axis {
	return Axis{
		BeginAtZero: beginAtZero,
		Title:       Title{Display: true, Text: title},
		Grid:        Grid{Color: gridColor},
	}
}

func chartTitle(text string) *Title {
	return &Title{Display: true, Text: text, Font: &Font{Size: 16, Weight: "bold"}}
}

// HourlyOptions is the preset for the 24-hour engagement line chart.
func HourlyOptions(theme Theme) Options {
	opts := baseOptions()
	opts.Plugins.Legend = &Legend{
		Display:  true,
		Position: "bottom",
		Labels:   &LegendLabels{UsePointStyle: true, Padding: 20},
	}
	opts.Plugins.Tooltip.LabelFormat = "%s: %.1f points"
	opts.Scales = map[string]Axis{
		"y": axis("Engagement Score", theme.GridColor, true),
		"x": axis("Hour of Day (Local Time)", theme.GridColor, false),
	}
	return opts
}

// DailyOptions is the preset for the day-of-week bar chart.
func DailyOptions(theme Theme) Options {
	opts := baseOptions()
	opts.Plugins.Legend = &Legend{Display: false}
	opts.Plugins.Tooltip.LabelFormat = "%s: %.0f points"
	opts.Scales = map[string]Axis{
		"y": axis("Engagement Score", theme.GridColor, true),
		"x": axis("Day of Week", theme.GridColor, false),
	}
	return opts
}

// PieOptions is the preset for the event-type pie chart.
func PieOptions() Options {
	return Options{
		Responsive:          true,
		MaintainAspectRatio: false,
		Plugins: Plugins{
			Legend: &Legend{
				Display:  true,
				Position: "right",
				Labels:   &LegendLabels{UsePointStyle: true, Padding: 20},
			},
			Tooltip: &Tooltip{Intersect: true, LabelFormat: "%s: %.0f points"},
		},
	}
}
