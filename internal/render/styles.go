package render

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7D56F4")
	accentColor  = lipgloss.Color("#FF79C6")
	errorColor   = lipgloss.Color("#FF5F5F")
	successColor = lipgloss.Color("#5FD787")
	warningColor = lipgloss.Color("#FFD75F")
	dimColor     = lipgloss.Color("#6C6C6C")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	favoriteStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	tagStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			PaddingTop(1)
)

// kindStyles colours notifications by kind.
var kindStyles = map[string]lipgloss.Style{
	"success": lipgloss.NewStyle().Foreground(successColor),
	"error":   lipgloss.NewStyle().Foreground(errorColor),
	"warning": lipgloss.NewStyle().Foreground(warningColor),
	"info":    lipgloss.NewStyle().Foreground(primaryColor),
}
