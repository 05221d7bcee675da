package keypad

import "github.com/charmbracelet/lipgloss"

const displayWidth = 23

var (
	displayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1).
			Width(displayWidth).
			Align(lipgloss.Right)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	buttonStyle = lipgloss.NewStyle().
			Width(5).
			Align(lipgloss.Center).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("8"))

	operatorStyle = buttonStyle.
			Foreground(lipgloss.Color("3"))

	focusedStyle = buttonStyle.
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)
