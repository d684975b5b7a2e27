package tui

import (
	"github.com/brizzai/google-signin/internal/auth/constants"
	"github.com/brizzai/google-signin/internal/signin"
	"github.com/charmbracelet/lipgloss"
)

// View renders the spinner while loading, otherwise the result line and the buttons
func (m AppModel) View() string {
	snap := m.handler.Snapshot()
	if snap.State == signin.Loading {
		return docStyle.Render(m.loadingView(snap))
	}

	text := profileStyle
	line := snap.Profile.String()
	if snap.HasError {
		text = errorStyle
		line = snap.Error
	}
	if m.width > 4 {
		text = text.Width(m.width - 4)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render("Sign In"),
		text.Render(line),
		m.buttonsView(),
		"",
		m.help.View(m.keys),
	)
	return docStyle.Render(m.center(content))
}

func (m AppModel) loadingView(snap signin.Snapshot) string {
	status := "Signing in with Google..."
	if snap.Provider == constants.ProviderFacebook {
		status = "Signing in with Facebook..."
	}

	lines := []string{m.spinner.View() + " " + status}
	if m.session != nil && m.session.URL != "" {
		lines = append(lines, urlStyle.Render("If your browser did not open, visit:\n"+m.session.URL))
	}
	lines = append(lines, m.help.View(m.keys))

	return m.center(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m AppModel) buttonsView() string {
	var rendered []string
	for b := buttonGoogle; b < buttonCount; b++ {
		style := buttonStyle
		if b == m.selected {
			style = activeButtonStyle
		}
		rendered = append(rendered, style.Render(b.label()))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rendered...)
}

// center places content in the middle of the window once its size is known
func (m AppModel) center(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width-4, m.height-2, lipgloss.Center, lipgloss.Center, content)
}
