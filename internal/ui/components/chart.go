// Package components renders chart descriptors and tables for the terminal.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/artist-engagement/internal/chart"
	"github.com/j-veylop/artist-engagement/internal/ui/styles"
)

// NoData is shown in place of a chart with nothing to plot.
const NoData = "No data available"

// seriesColors maps the default palette to the closest plot colours.
var seriesColors = map[string]asciigraph.AnsiColor{
	"#FF6384": asciigraph.Red,
	"#36A2EB": asciigraph.Blue,
	"#FFCE56": asciigraph.Yellow,
	"#4BC0C0": asciigraph.Teal,
	"#9966FF": asciigraph.Purple,
	"#FF9F40": asciigraph.Orange,
	"#2ECC71": asciigraph.Green,
}

// SeriesColor returns the plot colour for a palette entry. Colours outside
// the default palette plot in the terminal's default colour.
func SeriesColor(hex string) asciigraph.AnsiColor {
	if c, ok := seriesColors[strings.ToUpper(hex)]; ok {
		return c
	}
	return asciigraph.Default
}

// RenderChart renders any chart descriptor.
func RenderChart(cfg chart.Config, width, height int) string {
	switch cfg.Type {
	case chart.TypeLine:
		return RenderLineChart(cfg, width, height)
	case chart.TypeBar:
		return RenderConfigBars(cfg, width)
	case chart.TypePie:
		return RenderShares(cfg, width)
	default:
		return styles.HelpStyle.Render(fmt.Sprintf("Unsupported chart type %q", cfg.Type))
	}
}

// RenderLineChart plots every dataset of a line chart with a legend below.
func RenderLineChart(cfg chart.Config, width, height int) string {
	series := make([][]float64, 0, len(cfg.Data.Datasets))
	colors := make([]asciigraph.AnsiColor, 0, len(cfg.Data.Datasets))
	legend := make([]LegendItem, 0, len(cfg.Data.Datasets))
	for _, ds := range cfg.Data.Datasets {
		if len(ds.Data) == 0 {
			continue
		}
		series = append(series, ds.Data)
		colors = append(colors, SeriesColor(ds.BorderColor))
		legend = append(legend, LegendItem{Label: ds.Label, Color: styles.HexColor(ds.BorderColor)})
	}
	if len(series) == 0 {
		return styles.HelpStyle.Render(NoData)
	}

	// Ensure minimum dimensions
	width = max(width, 20)
	height = max(height, 3)

	// PlotMany needs equal lengths
	n := 0
	for _, s := range series {
		n = max(n, len(s))
	}
	for i, s := range series {
		if len(s) < n {
			padded := make([]float64, n)
			copy(padded, s)
			series[i] = padded
		}
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(cfg.Title()),
		asciigraph.SeriesColors(colors...),
	)
	if len(legend) < 2 {
		return graph
	}
	return graph + "\n" + RenderLegend(legend)
}

// RenderConfigBars renders the first dataset of a bar chart horizontally.
func RenderConfigBars(cfg chart.Config, width int) string {
	if len(cfg.Data.Datasets) == 0 {
		return styles.HelpStyle.Render(NoData)
	}
	out := RenderBarChart(cfg.Data.Datasets[0].Data, cfg.Data.Labels, width)
	if out == "" {
		return styles.HelpStyle.Render(NoData)
	}
	if title := cfg.Title(); title != "" {
		out = styles.SubTitleStyle.Render(title) + "\n" + out
	}
	return out
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	// Find max value for scaling
	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, ansi.StringWidth(l))
	}

	barWidth := max(width-maxLabelLen-10, 10) // Leave room for label and value

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		bar := strings.Repeat("█", barLen)
		valueStr := fmt.Sprintf(" %.1f", v)

		lines = append(lines, padLeft(label, maxLabelLen)+" │"+bar+valueStr)
	}

	return strings.Join(lines, "\n")
}

// RenderShares renders a pie chart as one coloured bar per slice, scaled to
// the slice's share of the total.
func RenderShares(cfg chart.Config, width int) string {
	if len(cfg.Data.Datasets) == 0 || len(cfg.Data.Datasets[0].Data) == 0 {
		return styles.HelpStyle.Render(NoData)
	}
	ds := cfg.Data.Datasets[0]

	total := 0.0
	for _, v := range ds.Data {
		total += v
	}
	if total == 0 {
		return styles.HelpStyle.Render(NoData)
	}

	maxLabelLen := 0
	for _, l := range cfg.Data.Labels {
		maxLabelLen = max(maxLabelLen, ansi.StringWidth(l))
	}
	maxLabelLen = min(maxLabelLen, 24)
	barWidth := max(width-maxLabelLen-12, 10)

	var tooltip chart.Tooltip
	if cfg.Options.Plugins.Tooltip != nil {
		tooltip = *cfg.Options.Plugins.Tooltip
	}

	lines := make([]string, 0, len(ds.Data))
	for i, v := range ds.Data {
		label := ""
		if i < len(cfg.Data.Labels) {
			label = cfg.Data.Labels[i]
		}
		share := v / total
		color := ""
		if i < len(ds.BackgroundColor) {
			color = ds.BackgroundColor[i]
		}
		barLen := int(math.Round(share * float64(barWidth)))
		bar := lipgloss.NewStyle().Foreground(styles.HexColor(color)).Render(strings.Repeat("█", barLen))

		name := padLeft(ansi.Truncate(label, maxLabelLen, "…"), maxLabelLen)
		pct := fmt.Sprintf(" %5.1f%%", share*100)
		lines = append(lines, styles.LabelStyle.Render(name)+" │"+bar+styles.ValueStyle.Render(pct))
		if tooltip.LabelFormat != "" {
			lines[len(lines)-1] += styles.HelpStyle.Render("  " + tooltip.FormatLabel(label, v))
		}
	}

	out := strings.Join(lines, "\n")
	if title := cfg.Title(); title != "" {
		out = styles.SubTitleStyle.Render(title) + "\n" + out
	}
	return out
}

// HeatmapBlocks are Unicode block characters for heatmaps (low to high intensity).
var HeatmapBlocks = []rune{'░', '▒', '▓', '█'}

// RenderHourlyHeatmap renders one cell per hour, shaded by its share of the peak.
func RenderHourlyHeatmap(values []float64) string {
	if len(values) == 0 {
		return styles.HelpStyle.Render(NoData)
	}

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}

	var b strings.Builder
	for _, v := range values {
		fraction := 0.0
		if peak > 0 {
			fraction = v / peak
		}
		idx := min(int(fraction*float64(len(HeatmapBlocks))), len(HeatmapBlocks)-1)
		b.WriteString(styles.IntensityStyle(fraction).Render(string(HeatmapBlocks[idx])))
	}
	return b.String()
}

// LegendItem represents an item in a chart legend.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// RenderLegend creates a horizontal legend for charts.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		box := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, box+" "+item.Label)
	}
	return strings.Join(parts, "  ")
}

func padLeft(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}
