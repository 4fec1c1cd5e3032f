package chart

import "slices"

// Theme holds the lookup tables used when building charts.
type Theme struct {
	Palette   []string
	DayNames  [7]string
	GridColor string
	BarFill   string
	BarBorder string
}

// DefaultTheme returns a fresh copy of the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		Palette: []string{
			"#FF6384", // red
			"#36A2EB", // blue
			"#FFCE56", // yellow
			"#4BC0C0", // teal
			"#9966FF", // purple
			"#FF9F40", // orange
			"#2ecc71", // green
		},
		DayNames:  [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		GridColor: "#e2e8f0",
		BarFill:   "#e2e8f0",
		BarBorder: "#64748b",
	}
}

// Color returns palette entry i, wrapping around the palette.
func (t Theme) Color(i int) string {
	if len(t.Palette) == 0 {
		return "#000000"
	}
	return t.Palette[i%len(t.Palette)]
}

// Colors returns the first n palette entries, wrapping when n exceeds the palette.
func (t Theme) Colors(n int) []string {
	if n <= len(t.Palette) {
		return slices.Clone(t.Palette[:n])
	}
	out := make([]string, n)
	for i := range out {
		out[i] = t.Color(i)
	}
	return out
}

// translucent appends a 20% alpha channel to a #rrggbb colour.
func translucent(hex string) string {
	return hex + "33"
}
