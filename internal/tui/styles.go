package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)
	// TitleStyle styles the table title.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	// ErrorStyle styles fatal error lines.
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	// HintStyle styles follow-up advice under an error.
	HintStyle = lipgloss.NewStyle().Faint(true)

	statusStyles = map[string]lipgloss.Style{
		"probed":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"success": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		"probing":   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"composing": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		"skipped": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		"error":  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"failed": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
