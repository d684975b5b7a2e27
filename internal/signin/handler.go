// Package signin holds the sign-in screen state and drives delegated sign-in attempts.
package signin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/brizzai/google-signin/internal/auth/constants"
	"github.com/brizzai/google-signin/internal/auth/models"
	"github.com/brizzai/google-signin/internal/logger"
	"go.uber.org/zap"
)

// State is what the screen currently shows
type State int

const (
	// Idle means no sign-in is in progress
	Idle State = iota
	// Loading means a sign-in attempt is outstanding
	Loading
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	default:
		return "unknown"
	}
}

// ErrFacebookNotImplemented is returned by the Facebook trigger. The screen
// enters Loading and stays there: no provider exists behind the button.
var ErrFacebookNotImplemented = errors.New("facebook sign-in is not implemented")

// Snapshot is a consistent copy of the handler state
type Snapshot struct {
	State    State
	Provider string
	Profile  models.UserProfile
	Error    string
	HasError bool
}

// Handler owns the state, profile and error shown on the sign-in screen.
// BeginSignIn, BeginFacebookSignIn and HandleResult are its only mutators.
type Handler struct {
	mu       sync.RWMutex
	state    State
	provider string
	profile  models.UserProfile
	errMsg   *string
}

// NewHandler returns a Handler in the Idle state with an empty profile
func NewHandler() *Handler {
	return &Handler{}
}

// BeginSignIn enters Loading for a Google sign-in. Calling it while already Loading is harmless.
func (h *Handler) BeginSignIn() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == Loading {
		logger.Debug("Sign-in already in progress", zap.String("provider", h.provider))
	}
	h.state = Loading
	h.provider = constants.ProviderGoogle
	logger.Info("Sign-in started", zap.String("provider", h.provider))
}

// BeginFacebookSignIn enters Loading and reports that nothing will ever resolve it
func (h *Handler) BeginFacebookSignIn() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state = Loading
	h.provider = constants.ProviderFacebook
	return ErrFacebookNotImplemented
}

// HandleResult applies the outcome of a sign-in attempt and returns to Idle.
// It never fails: provider errors end up in the error message.
func (h *Handler) HandleResult(outcome models.Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != Loading {
		logger.Warn("Sign-in result arrived while idle", zap.String("provider", h.provider))
	}

	switch o := outcome.(type) {
	case models.Success:
		h.profile = o.Account.Profile()
		h.errMsg = nil
		logger.Info("Sign-in succeeded", zap.String("id", h.profile.ID), zap.String("email", h.profile.Email))
	case models.Failure:
		h.setFailureLocked(o.Cause)
	default:
		h.setFailureLocked(models.NewSignInError(models.StatusInternalError,
			fmt.Sprintf("unexpected sign-in outcome %T", outcome), nil))
	}
	h.state = Idle
}

func (h *Handler) setFailureLocked(cause *models.SignInError) {
	if cause == nil {
		cause = models.NewSignInError(models.StatusError, "", nil)
	}
	msg := FormatFailure(cause)
	h.errMsg = &msg
	logger.Warn("Sign-in failed",
		zap.Int("status_code", cause.Code),
		zap.String("status", cause.Status),
		zap.String("message", cause.Message),
	)
}

// FormatFailure renders a provider error the way the screen shows it
func FormatFailure(cause *models.SignInError) string {
	return fmt.Sprintf("%s\nCause: %s\nStatus Code: %d\nStatus: %s",
		constants.FailureHeadline, cause.Message, cause.Code, cause.Status)
}

// State returns the current screen state
func (h *Handler) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Profile returns the last successfully signed-in profile
func (h *Handler) Profile() models.UserProfile {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.profile
}

// ErrorMessage returns the current error message, if any
func (h *Handler) ErrorMessage() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.errMsg == nil {
		return "", false
	}
	return *h.errMsg, true
}

// Text is the line shown above the buttons: the error when there is one, the profile otherwise
func (h *Handler) Text() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.errMsg != nil {
		return *h.errMsg
	}
	return h.profile.String()
}

// Snapshot returns a consistent copy of the whole state
func (h *Handler) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s := Snapshot{
		State:    h.state,
		Provider: h.provider,
		Profile:  h.profile,
	}
	if h.errMsg != nil {
		s.Error = *h.errMsg
		s.HasError = true
	}
	return s
}
