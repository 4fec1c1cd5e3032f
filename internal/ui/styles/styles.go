// Package styles defines the visual styling for terminal reports.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color definitions.
var (
	// Primary colors
	Primary   = lipgloss.Color("205") // Pink
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1).
	MarginBottom(1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// HelpStyle is the base style for help and placeholder text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// LabelStyle styles row labels in charts and tables.
var LabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// ValueStyle styles numeric values.
var ValueStyle = lipgloss.NewStyle().
	Foreground(TextPrimary)

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// WarningTextStyle for warnings, such as events dropped from a report.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

var (
	intensityLowStyle    = lipgloss.NewStyle().Foreground(Subtle)
	intensityMediumStyle = lipgloss.NewStyle().Foreground(Success)
	intensityHighStyle   = lipgloss.NewStyle().Foreground(Warning)
	intensityPeakStyle   = lipgloss.NewStyle().Foreground(Error)
)

// IntensityStyle returns the heat style for a value as a fraction of the peak.
func IntensityStyle(fraction float64) lipgloss.Style {
	switch {
	case fraction > 0.75:
		return intensityPeakStyle
	case fraction > 0.5:
		return intensityHighStyle
	case fraction > 0.25:
		return intensityMediumStyle
	default:
		return intensityLowStyle
	}
}

// HexColor converts a #rrggbb or #rrggbbaa colour to a terminal colour.
// The alpha channel is dropped.
func HexColor(hex string) lipgloss.Color {
	if len(hex) == 9 && strings.HasPrefix(hex, "#") {
		hex = hex[:7]
	}
	return lipgloss.Color(hex)
}
