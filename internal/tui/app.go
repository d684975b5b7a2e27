package tui

import (
	"context"

	"github.com/brizzai/google-signin/internal/auth/models"
	"github.com/brizzai/google-signin/internal/logger"
	"github.com/brizzai/google-signin/internal/signin"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Launcher starts a delegated sign-in attempt
type Launcher interface {
	Launch(ctx context.Context) *signin.Session
}

type button int

const (
	buttonGoogle button = iota
	buttonFacebook
	buttonCount
)

func (b button) label() string {
	if b == buttonFacebook {
		return "Facebook Sign Up"
	}
	return "Google Sign Up"
}

// sessionStartedMsg is sent once the launcher has produced a session
type sessionStartedMsg struct {
	session *signin.Session
}

// OutcomeMsg carries the single result of a sign-in session
type OutcomeMsg struct {
	Outcome models.Outcome
}

// AppModel is the sign-in screen
type AppModel struct {
	handler  *signin.Handler
	launcher Launcher
	keys     *signInKeyMap
	help     help.Model
	spinner  spinner.Model
	selected button
	session  *signin.Session
	width    int
	height   int
}

// NewAppModel creates the sign-in screen around handler and launcher
func NewAppModel(handler *signin.Handler, launcher Launcher) AppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return AppModel{
		handler:  handler,
		launcher: launcher,
		keys:     newSignInKeyMap(),
		help:     help.New(),
		spinner:  s,
		selected: buttonGoogle,
	}
}

// Init initializes the AppModel
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses, sign-in progress and window changes
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Triggers stay disabled while an attempt is outstanding
	m.keys.setTriggersEnabled(m.handler.State() == signin.Idle)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			if m.session != nil {
				m.session.Cancel()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.next):
			m.selected = (m.selected + 1) % buttonCount
		case key.Matches(msg, m.keys.prev):
			m.selected = (m.selected + buttonCount - 1) % buttonCount
		case key.Matches(msg, m.keys.press):
			return m.press(m.selected)
		case key.Matches(msg, m.keys.google):
			return m.press(buttonGoogle)
		case key.Matches(msg, m.keys.facebook):
			return m.press(buttonFacebook)
		}

	case sessionStartedMsg:
		m.session = msg.session
		return m, waitForOutcome(msg.session)

	case OutcomeMsg:
		m.handler.HandleResult(msg.Outcome)
		m.session = nil
		m.keys.setTriggersEnabled(true)
		return m, nil

	case spinner.TickMsg:
		if m.handler.State() != signin.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	return m, nil
}

func (m AppModel) press(b button) (tea.Model, tea.Cmd) {
	m.selected = b
	switch b {
	case buttonFacebook:
		if err := m.handler.BeginFacebookSignIn(); err != nil {
			logger.Warn("Facebook sign-in requested", zap.Error(err))
		}
		m.keys.setTriggersEnabled(false)
		return m, m.spinner.Tick
	default:
		m.handler.BeginSignIn()
		m.keys.setTriggersEnabled(false)
		return m, tea.Batch(m.spinner.Tick, m.launch())
	}
}

func (m AppModel) launch() tea.Cmd {
	launcher := m.launcher
	return func() tea.Msg {
		return sessionStartedMsg{session: launcher.Launch(context.Background())}
	}
}

// waitForOutcome reads the single outcome of session
func waitForOutcome(session *signin.Session) tea.Cmd {
	return func() tea.Msg {
		outcome, ok := <-session.Result
		if !ok {
			return OutcomeMsg{Outcome: models.Fail(models.StatusInterrupted, "sign-in ended without a result", nil)}
		}
		return OutcomeMsg{Outcome: outcome}
	}
}

// Snapshot returns the final screen state, for reporting after the program exits
func (m AppModel) Snapshot() signin.Snapshot {
	return m.handler.Snapshot()
}
