package components

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/j-veylop/artist-engagement/internal/models"
)

// HistogramOptions controls RenderHourlyHistogram.
type HistogramOptions struct {
	// BarWidth is the length of the longest bar.
	BarWidth int
	// Compare is plotted as a second marker on each row, e.g. weekend averages.
	Compare *[models.HoursPerDay]float64
}

// RenderHourlyHistogram renders one row per local hour with a bar scaled to
// the busiest hour. The peak hour is marked with ^ and quiet hours with z.
func RenderHourlyHistogram(agg models.DayAggregation, opts HistogramOptions) string {
	values := agg.AllDays
	peakHour, peak := agg.PeakHour()
	if peak <= 0 {
		return "No activity data available\n"
	}
	barWidth := opts.BarWidth
	if barWidth <= 0 {
		barWidth = 40
	}

	var output strings.Builder
	output.WriteString("Engagement by local hour\n")
	output.WriteString(strings.Repeat("─", barWidth+16) + "\n")

	barColor := color.New(color.FgCyan)
	peakColor := color.New(color.FgYellow)
	quietColor := color.New(color.FgBlue)
	compareColor := color.New(color.FgMagenta)

	for hour, v := range values {
		line := fmt.Sprintf("%02d:00 ", hour)

		// Hour type marker with fixed width
		switch {
		case hour == peakHour:
			line += peakColor.Sprint("^") + " "
		case v == 0:
			line += quietColor.Sprint("z") + " "
		default:
			line += "  "
		}

		line += fmt.Sprintf("%6.2f ", v)

		barLength := int(v / peak * float64(barWidth))
		bar := strings.Repeat("█", barLength)
		if hour == peakHour {
			line += peakColor.Sprint(bar)
		} else {
			line += barColor.Sprint(bar)
		}

		if opts.Compare != nil {
			if c := opts.Compare[hour]; c > 0 {
				pos := min(int(c/peak*float64(barWidth)), barWidth)
				if pad := pos - barLength; pad > 0 {
					line += strings.Repeat(" ", pad)
				}
				line += compareColor.Sprint("│")
			}
		}

		output.WriteString(line + "\n")
	}

	legend := peakColor.Sprint("^") + " peak  " + quietColor.Sprint("z") + " no activity"
	if opts.Compare != nil {
		legend += "  " + compareColor.Sprint("│") + " comparison"
	}
	output.WriteString(legend + "\n")
	return output.String()
}
