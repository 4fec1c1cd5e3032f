// Package report writes engagement dashboards as JSON chart descriptors or as
// a static terminal report.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/artist-engagement/internal/engagement"
	"github.com/j-veylop/artist-engagement/internal/models"
	"github.com/j-veylop/artist-engagement/internal/services/analytics"
	"github.com/j-veylop/artist-engagement/internal/ui/components"
	"github.com/j-veylop/artist-engagement/internal/ui/styles"
)

// Format selects the output encoding.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses "text" or "json". Empty input selects text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Options controls text rendering.
type Options struct {
	Width  int
	Height int
	// Histogram adds the per-hour histogram below each line chart.
	Histogram bool
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{Width: 72, Height: 10}
}

// Write renders d in the requested format.
func Write(w io.Writer, format Format, d *analytics.Dashboard, charts []analytics.ArtistCharts, opts Options) error {
	if format == FormatJSON {
		return WriteJSON(w, d, charts)
	}
	return WriteText(w, d, charts, opts)
}

// Document is the JSON form of a dashboard.
type Document struct {
	Query   QueryInfo                `json:"query"`
	Window  *Window                  `json:"window"`
	Source  string                   `json:"source"`
	Artists []analytics.ArtistCharts `json:"artists"`
	Reach   []Reach                  `json:"reach"`
	Stats   *Stats                   `json:"stats,omitempty"`
}

// QueryInfo echoes the parameters the dashboard was built for.
type QueryInfo struct {
	ViewMode  string `json:"viewMode"`
	TimeRange string `json:"timeRange"`
	Date      string `json:"date"`
	ChartMode string `json:"chartMode"`
	Artist    string `json:"artist,omitempty"`
}

// Window is an inclusive calendar window.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Reach is one row of the artist reach table.
type Reach struct {
	Artist             string `json:"artist"`
	ArtistID           int64  `json:"artistId"`
	TotalVisitDuration int64  `json:"totalVisitDurationMs"`
	UniqueSessionUsers int    `json:"uniqueSessionUsers"`
}

// Stats summarises how raw events were disposed of.
type Stats struct {
	Total              int `json:"total"`
	Accepted           int `json:"accepted"`
	UnknownType        int `json:"unknownType"`
	UnresolvedTimezone int `json:"unresolvedTimezone"`
	OutsideWindow      int `json:"outsideWindow"`
}

// NewDocument converts a dashboard to its JSON form.
func NewDocument(d *analytics.Dashboard, charts []analytics.ArtistCharts) Document {
	doc := Document{
		Query: QueryInfo{
			ViewMode:  d.Query.ViewMode.String(),
			TimeRange: d.Query.TimeRange.String(),
			Date:      d.Query.Date.Format(models.DateLayout),
			ChartMode: d.Query.ChartMode.String(),
			Artist:    d.Query.Artist,
		},
		Source:  string(d.Source),
		Artists: charts,
		Reach:   make([]Reach, len(d.Reach)),
	}
	if doc.Artists == nil {
		doc.Artists = []analytics.ArtistCharts{}
	}
	if d.Window != nil {
		doc.Window = &Window{
			Start: d.Window.Start.Format(models.DateLayout),
			End:   d.Window.End.Format(models.DateLayout),
		}
	}
	for i, r := range d.Reach {
		doc.Reach[i] = Reach{
			Artist:             r.ArtistName,
			ArtistID:           r.ArtistID,
			TotalVisitDuration: r.TotalVisitDuration,
			UniqueSessionUsers: r.UniqueSessionUsers,
		}
	}
	if d.Stats != (engagement.LocalizeStats{}) {
		s := Stats(d.Stats)
		doc.Stats = &s
	}
	return doc
}

// WriteJSON writes the dashboard as an indented JSON document.
func WriteJSON(w io.Writer, d *analytics.Dashboard, charts []analytics.ArtistCharts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(d, charts)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteText renders the dashboard for the terminal.
func WriteText(w io.Writer, d *analytics.Dashboard, charts []analytics.ArtistCharts, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width = max(opts.Width, def.Width)
		opts.Height = max(opts.Height, def.Height)
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Artist Engagement"))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render(Summary(d)))
	b.WriteString("\n\n")

	if len(charts) == 0 {
		b.WriteString(styles.HelpStyle.Render(components.NoData))
		b.WriteString("\n\n")
	}
	for i, c := range charts {
		var r *engagement.ArtistReport
		if i < len(d.Reports) {
			r = &d.Reports[i]
		}
		b.WriteString(renderArtist(c, r, opts))
		b.WriteString("\n")
	}

	b.WriteString(renderReach(d.Reach, opts.Width))
	if d.Stats != (engagement.LocalizeStats{}) {
		style := styles.HelpStyle
		if d.Stats.Excluded() > 0 {
			style = styles.WarningTextStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(StatsLine(d.Stats)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Summary describes the query in one line.
func Summary(d *analytics.Dashboard) string {
	q := d.Query
	s := fmt.Sprintf("%s · %s view · %s", q.TimeRange.Title(), q.ViewMode, q.Date.Format(models.DateLayout))
	if d.Window != nil {
		s += fmt.Sprintf(" (%s to %s)", d.Window.Start.Format(models.DateLayout), d.Window.End.Format(models.DateLayout))
	} else {
		s += " (all history)"
	}
	return s + " · source " + string(d.Source)
}

// StatsLine reports how many raw events were scored and why the rest were dropped.
func StatsLine(s engagement.LocalizeStats) string {
	return fmt.Sprintf("%d of %d events scored; excluded %d unknown type, %d unknown timezone, %d outside window",
		s.Accepted, s.Total, s.UnknownType, s.UnresolvedTimezone, s.OutsideWindow)
}

func renderArtist(c analytics.ArtistCharts, r *engagement.ArtistReport, opts Options) string {
	var b strings.Builder
	title := c.Artist
	if r != nil {
		peakHour, peak := r.Day.PeakHour()
		title += fmt.Sprintf("  %d events", r.Events)
		if peak > 0 {
			title += fmt.Sprintf(", peak %02d:00 (%.1f)", peakHour, peak)
		}
	}
	b.WriteString(styles.CardTitleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(components.RenderChart(c.Hourly, opts.Width, opts.Height))
	b.WriteString("\n")
	if r != nil {
		b.WriteString(styles.LabelStyle.Render("00h ") + components.RenderHourlyHeatmap(r.Day.AllDays[:]) + styles.LabelStyle.Render(" 23h"))
		b.WriteString("\n")
		if opts.Histogram {
			b.WriteString("\n")
			b.WriteString(components.RenderHourlyHistogram(r.Day, components.HistogramOptions{
				BarWidth: max(opts.Width-24, 10),
				Compare:  &r.Day.Weekend,
			}))
		}
	}
	b.WriteString("\n")
	b.WriteString(components.RenderChart(c.Daily, opts.Width, opts.Height))
	b.WriteString("\n\n")
	b.WriteString(components.RenderChart(c.EventTypes, opts.Width, opts.Height))
	b.WriteString("\n")

	return styles.CardStyle.Render(b.String())
}

const reachNameWidth = 20

func renderReach(reach []models.ArtistReach, width int) string {
	var b strings.Builder
	b.WriteString(styles.SubTitleStyle.Render("Artist Reach"))
	b.WriteString("\n")
	if len(reach) == 0 {
		b.WriteString(styles.HelpStyle.Render(components.NoData))
		b.WriteString("\n")
		return b.String()
	}

	nameWidth := min(reachNameWidth, max(width-32, 8))
	header := fmt.Sprintf("%-*s %14s %14s", nameWidth, "Artist", "Visit time", "Unique users")
	b.WriteString(styles.TableHeaderStyle.Render(header))
	b.WriteString("\n")
	for _, r := range reach {
		name := ansi.Truncate(r.ArtistName, nameWidth, "…")
		if pad := nameWidth - ansi.StringWidth(name); pad > 0 {
			name += strings.Repeat(" ", pad)
		}
		fmt.Fprintf(&b, "%s %14s %14d\n", name, r.VisitDuration().String(), r.UniqueSessionUsers)
	}
	return b.String()
}
