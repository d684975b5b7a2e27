package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#15202b")).
			Background(lipgloss.Color("#f56a96")).
			Padding(0, 1)

	profileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#15202b", Dark: "#FFFFFF"}).
			Padding(1, 0)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#f56a96", Dark: "#f23a74"}).
			Padding(1, 0)

	buttonStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A49FA5")).
			Padding(0, 2).
			Margin(0, 1)

	activeButtonStyle = buttonStyle.
				BorderForeground(lipgloss.Color("#f56a96")).
				Foreground(lipgloss.Color("#f56a96")).
				Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f56a96"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#626262", Dark: "#A49FA5"}).
			Padding(1, 0)
)

var docStyle = lipgloss.NewStyle().Margin(1, 2)
