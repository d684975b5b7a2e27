package handlers

import (
	"net/http"
	"sync/atomic"

	"github.com/brizzai/google-signin/internal/auth/constants"
	"github.com/brizzai/google-signin/internal/logger"
	"github.com/brizzai/google-signin/internal/utils"
	"go.uber.org/zap"
)

// CallbackResult is what the authorization server sent back on the redirect
type CallbackResult struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// Callback receives the loopback redirect of one sign-in attempt.
// Only the first request carrying a state and a code or error is delivered;
// later ones are rejected.
type Callback struct {
	results   chan<- CallbackResult
	delivered atomic.Bool
}

// NewCallback creates a Callback delivering into results, which must have room for one value
func NewCallback(results chan<- CallbackResult) *Callback {
	return &Callback{results: results}
}

// HandleAuthCallback handles the OAuth redirect
func (c *Callback) HandleAuthCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	result := CallbackResult{
		Code:             query.Get(constants.ParamCode),
		State:            query.Get(constants.ParamState),
		Error:            query.Get(constants.ParamError),
		ErrorDescription: query.Get(constants.ParamErrorDescription),
	}

	// Stray requests such as a reloaded tab or a bare visit do not
	// consume the single delivery
	if result.State == "" || (result.Code == "" && result.Error == "") {
		logger.Debug("Ignoring request without a sign-in response", zap.String("remote_addr", r.RemoteAddr))
		utils.WritePage(w, http.StatusBadRequest, "Nothing to do here",
			"This page only receives the sign-in redirect. Return to the terminal.")
		return
	}

	if !c.delivered.CompareAndSwap(false, true) {
		logger.Warn("Ignoring repeated sign-in redirect", zap.String("remote_addr", r.RemoteAddr))
		utils.WriteError(w, "invalid_request", "sign-in already completed", http.StatusConflict)
		return
	}

	logger.Debug("Received sign-in redirect",
		zap.Bool("has_code", result.Code != ""),
		zap.String("error", result.Error),
	)
	c.results <- result

	if result.Error != "" {
		utils.WritePage(w, http.StatusOK, "Sign-in did not complete",
			"You can close this tab and return to the terminal.")
		return
	}
	utils.WritePage(w, http.StatusOK, "Signed in",
		"You can close this tab and return to the terminal.")
}

func (c *Callback) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.HandleAuthCallback(w, r)
}
