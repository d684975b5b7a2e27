package signin

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/brizzai/google-signin/internal/auth"
	"github.com/brizzai/google-signin/internal/auth/constants"
	"github.com/brizzai/google-signin/internal/auth/models"
	"github.com/brizzai/google-signin/internal/auth/providers"
	"github.com/brizzai/google-signin/internal/config"
	"github.com/brizzai/google-signin/internal/logger"
	"github.com/google/uuid"
	"github.com/pkg/browser"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Session is one launched sign-in attempt. Result receives exactly one
// Outcome and is then closed.
type Session struct {
	URL    string
	Result <-chan models.Outcome
	Cancel context.CancelFunc
}

// Launcher starts interactive sign-in attempts against the identity provider
type Launcher struct {
	cfg      *config.OAuthConfig
	provider providers.Provider
	openURL  func(url string) error
	active   atomic.Bool
}

func NewLauncher(cfg *config.OAuthConfig, provider providers.Provider) *Launcher {
	return &Launcher{
		cfg:      cfg,
		provider: provider,
		openURL:  browser.OpenURL,
	}
}

// Launch starts a sign-in attempt. It never fails directly: every problem is
// delivered as a Failure on the session's Result channel.
func (l *Launcher) Launch(ctx context.Context) *Session {
	var cancel context.CancelFunc
	if l.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, l.cfg.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	results := make(chan models.Outcome, 1)
	session := &Session{Result: results, Cancel: cancel}

	if !l.active.CompareAndSwap(false, true) {
		return finish(session, results, models.Fail(models.StatusSignInCurrentlyInProgress,
			"another sign-in is already in progress", nil))
	}

	if err := l.provider.Validate(); err != nil {
		l.active.Store(false)
		return finish(session, results, models.Failure{Cause: providers.Classify(err)})
	}

	srv, err := auth.StartCallbackServer(l.cfg)
	if err != nil {
		l.active.Store(false)
		logger.Error("Failed to start redirect receiver", zap.Error(err))
		return finish(session, results, models.Fail(models.StatusDeveloperError, err.Error(), err))
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	session.URL = l.provider.GetAuthURL(state,
		oauth2.S256ChallengeFromVerifier(verifier),
		constants.CodeChallengeMethod,
		srv.RedirectURI(),
	)

	log := logger.ForAttempt(l.provider.Name(), uuid.NewString()[:8])
	log.Info("Launching sign-in", zap.String("redirect_uri", srv.RedirectURI()))
	if l.cfg.OpenBrowser {
		if err := l.openURL(session.URL); err != nil {
			log.Warn("Failed to open browser, the sign-in URL is shown on screen", zap.Error(err))
		}
	}

	go l.complete(ctx, cancel, log, srv, state, verifier, results)
	return session
}

func finish(session *Session, results chan models.Outcome, outcome models.Outcome) *Session {
	results <- outcome
	close(results)
	session.Cancel()
	return session
}

// complete resolves the attempt. The receiver is stopped and the launcher
// released before the outcome is sent, so a caller that reacts to the outcome
// can launch again right away.
func (l *Launcher) complete(ctx context.Context, cancel context.CancelFunc, log *zap.Logger,
	srv *auth.CallbackServer, state, verifier string, results chan<- models.Outcome) {
	var outcome models.Outcome
	account, err := l.await(ctx, srv, state, verifier)
	if err != nil {
		cause := providers.Classify(err)
		log.Warn("Sign-in attempt failed", zap.Int("status_code", cause.Code), zap.Error(err))
		outcome = models.Failure{Cause: cause}
	} else {
		log.Info("Sign-in attempt succeeded")
		outcome = models.Success{Account: *account}
	}

	if err := srv.Shutdown(); err != nil {
		log.Warn("Failed to stop redirect receiver", zap.Error(err))
	}
	cancel()
	l.active.Store(false)

	results <- outcome
	close(results)
}

func (l *Launcher) await(ctx context.Context, srv *auth.CallbackServer, state, verifier string) (*models.Account, error) {
	cb, err := srv.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("waiting for redirect: %w", err)
	}
	if cb.State != state {
		return nil, providers.ErrStateMismatch
	}
	if cb.Error != "" {
		return nil, &providers.AuthorizationError{Code: cb.Error, Description: cb.ErrorDescription}
	}
	if cb.Code == "" {
		return nil, providers.ErrMissingCode
	}

	token, err := l.provider.ExchangeCode(ctx, cb.Code, verifier, srv.RedirectURI())
	if err != nil {
		return nil, err
	}

	account, err := l.provider.Account(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to read account: %w", err)
	}
	return account, nil
}
