package main

import (
	"fmt"
	"io"

	"github.com/brizzai/google-signin/internal/auth/models"
	"github.com/brizzai/google-signin/internal/config"
	"github.com/brizzai/google-signin/internal/signin"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// report is the result printed once the screen closes
type report struct {
	State    string              `yaml:"state"`
	Provider string              `yaml:"provider,omitempty"`
	Profile  *models.UserProfile `yaml:"profile,omitempty"`
	Error    string              `yaml:"error,omitempty"`
}

func newReport(snap signin.Snapshot) report {
	r := report{
		State:    snap.State.String(),
		Provider: snap.Provider,
		Error:    snap.Error,
	}
	if !snap.Profile.IsZero() {
		profile := snap.Profile
		r.Profile = &profile
	}
	return r
}

func printReport(w io.Writer, format config.OutputFormat, snap signin.Snapshot) error {
	if format == config.OutputFormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newReport(snap)); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return enc.Close()
	}

	switch {
	case snap.HasError:
		pterm.Fprintln(w, pterm.Error.Sprint(snap.Error))
	case !snap.Profile.IsZero():
		pterm.Fprintln(w, pterm.Success.Sprintf("Signed in as %s", pterm.LightGreen(snap.Profile.String())))
	case snap.State == signin.Loading:
		pterm.Fprintln(w, pterm.Warning.Sprintf("Sign-in with %s did not complete", snap.Provider))
	default:
		pterm.Fprintln(w, pterm.Info.Sprint("Not signed in"))
	}
	return nil
}
