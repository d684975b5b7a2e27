package tui

import "github.com/charmbracelet/bubbles/key"

// signInKeyMap holds key bindings for the sign-in screen
type signInKeyMap struct {
	next     key.Binding
	prev     key.Binding
	press    key.Binding
	google   key.Binding
	facebook key.Binding
	quit     key.Binding
}

func newSignInKeyMap() *signInKeyMap {
	return &signInKeyMap{
		next: key.NewBinding(
			key.WithKeys("right", "tab", "l"),
			key.WithHelp("→/tab", "Next button"),
		),
		prev: key.NewBinding(
			key.WithKeys("left", "shift+tab", "h"),
			key.WithHelp("←", "Previous button"),
		),
		press: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "Press button"),
		),
		google: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "Google Sign Up"),
		),
		facebook: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Facebook Sign Up"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("ctrl+c/q", "Quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the help line
func (k signInKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.google, k.facebook, k.press, k.quit}
}

// FullHelp returns all bindings
func (k signInKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.press},
		{k.google, k.facebook, k.quit},
	}
}

// setTriggersEnabled enables or disables every binding that can start a sign-in
func (k *signInKeyMap) setTriggersEnabled(enabled bool) {
	k.next.SetEnabled(enabled)
	k.prev.SetEnabled(enabled)
	k.press.SetEnabled(enabled)
	k.google.SetEnabled(enabled)
	k.facebook.SetEnabled(enabled)
}
