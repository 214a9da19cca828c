// Package render provides output rendering for the REPL: the welcome
// screen and the timing insights reports.
package render

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	ColorCyan   = lipgloss.Color("12") // Section headers
	ColorYellow = lipgloss.Color("11") // Titles, highlighted values
	ColorGreen  = lipgloss.Color("10") // Healthy ratings
	ColorRed    = lipgloss.Color("9")  // Degraded ratings
	ColorGray   = lipgloss.Color("8")  // Dim/secondary (meta info)
)

var (
	// TitleStyle is used for report and welcome titles
	TitleStyle = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)

	// HeaderStyle is used for report section headers
	HeaderStyle = lipgloss.NewStyle().Foreground(ColorCyan)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().Foreground(ColorGray)

	// ValueStyle is used for field values
	ValueStyle = lipgloss.NewStyle().Foreground(ColorYellow)

	// GoodStyle is used for healthy ratings
	GoodStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	// BadStyle is used for degraded ratings
	BadStyle = lipgloss.NewStyle().Foreground(ColorRed)

	// DimStyle is used for secondary information
	DimStyle = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)
)
