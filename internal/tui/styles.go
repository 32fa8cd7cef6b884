package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	correctStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	wrongStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	cardStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2).
			Width(60)
)

// statusGlyph renders one navigator cell.
func statusGlyph(status string, n int) string {
	label := lipgloss.NewStyle().Width(3).Align(lipgloss.Center).Render(itoa(n))
	switch status {
	case "current":
		return cursorStyle.Render("[" + label + "]")
	case "flagged":
		return warnStyle.Render("!" + label + " ")
	case "answered":
		return selectedStyle.Render(" " + label + " ")
	case "visited":
		return mutedStyle.Render(" " + label + " ")
	default:
		return mutedStyle.Faint(true).Render(" " + label + " ")
	}
}
