package providers

import (
	"context"

	"github.com/brizzai/google-signin/internal/auth/models"
	"golang.org/x/oauth2"
)

// Provider defines the interface that the identity provider must implement
type Provider interface {
	// Name returns the short provider name used in logs
	Name() string

	// Validate reports configuration problems before a sign-in is launched
	Validate() error

	// GetAuthURL returns the authorization URL the user is sent to
	GetAuthURL(state, codeChallenge, codeChallengeMethod, redirectURI string) string

	// ExchangeCode exchanges an authorization code for tokens
	ExchangeCode(ctx context.Context, code, codeVerifier, redirectURI string) (*oauth2.Token, error)

	// Account returns the account the tokens were issued for
	Account(ctx context.Context, token *oauth2.Token) (*models.Account, error)
}
