// Package styles holds the terminal palette shared by the docd commands
package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro color palette
const (
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	Red     = "#FF6188"
	Orange  = "#FC9867"
	Yellow  = "#FFD866"
	Green   = "#A9DC76"
	Cyan    = "#78DCE8"
	Magenta = "#FF6188"

	Comment = "#727072" // dim text, help
	Border  = "#5B595C"
)

var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	InfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	SpinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Magenta))
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(Border))
)

// PageStatusStyle picks the style for a page status label as reported by
// the site builder and checker
func PageStatusStyle(status string) lipgloss.Style {
	switch status {
	case "up to date":
		return SuccessStyle
	case "new":
		return InfoStyle
	case "changed", "stale":
		return HighlightStyle
	case "output missing", "missing":
		return WarningStyle
	default:
		return DimStyle
	}
}
