package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"botwatch/internal/derive"
)

// Color constants
const (
	ColorPrimary    = lipgloss.Color("39")  // Cyan/blue
	ColorMuted      = lipgloss.Color("241") // Gray
	ColorBackground = lipgloss.Color("236") // Dark gray
	ColorSelected   = lipgloss.Color("57")  // Purple
	ColorSelectedFg = lipgloss.Color("229") // Light yellow
	ColorGreen      = lipgloss.Color("82")  // Green for gains
	ColorRed        = lipgloss.Color("196") // Red for losses
	ColorWarning    = lipgloss.Color("220") // Yellow for warnings
	ColorInfo       = lipgloss.Color("75")  // Light blue for submitted
)

// Shared styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBackground).
			Padding(0, 1)

	ContentStyle = lipgloss.NewStyle().
			Padding(1, 2)

	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	DescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SectionStyle = lipgloss.NewStyle().Bold(true)

	LabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	ValueStyle = lipgloss.NewStyle().Bold(true)

	GreenStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	RedStyle = lipgloss.NewStyle().Foreground(ColorRed)

	InfoStyle = lipgloss.NewStyle().Foreground(ColorInfo)

	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	BadgeOnStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	BadgeOffStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)
)

// StatusStyle maps a derived status class to its line style.
func StatusStyle(class derive.StatusClass) lipgloss.Style {
	switch class {
	case derive.ClassError:
		return ErrorStyle
	case derive.ClassSuccess:
		return GreenStyle
	case derive.ClassInfo:
		return InfoStyle
	default:
		return LabelStyle
	}
}

// GainStyle returns the style for a signed value: >= 0 is always the
// positive style.
func GainStyle(gain bool) lipgloss.Style {
	if gain {
		return GreenStyle
	}
	return RedStyle
}

// TableStyles returns the default table styles for TUI tables.
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorSelectedFg).
		Background(ColorSelected).
		Bold(true)
	return s
}

// BlurredTableStyles drops the selection highlight for tables that do not
// have focus.
func BlurredTableStyles() table.Styles {
	s := TableStyles()
	s.Selected = lipgloss.NewStyle()
	return s
}
