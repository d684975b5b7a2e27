package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/brizzai/google-signin/internal/auth/constants"
	"github.com/brizzai/google-signin/internal/auth/models"
	"github.com/brizzai/google-signin/internal/config"
	"github.com/brizzai/google-signin/internal/logger"
	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultGoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleOption customizes a GoogleProvider, mostly to point it at test servers
type GoogleOption func(*GoogleProvider)

// WithEndpoint overrides the authorization and token endpoints
func WithEndpoint(endpoint oauth2.Endpoint) GoogleOption {
	return func(p *GoogleProvider) {
		p.oauth2Config.Endpoint = endpoint
	}
}

// WithVerifier installs an ID token verifier and skips OIDC discovery
func WithVerifier(verifier *oidc.IDTokenVerifier) GoogleOption {
	return func(p *GoogleProvider) {
		p.verifier = verifier
	}
}

// WithUserInfoURL overrides the userinfo endpoint
func WithUserInfoURL(url string) GoogleOption {
	return func(p *GoogleProvider) {
		p.userInfoURL = url
	}
}

// WithHTTPClient makes every provider request go through client
func WithHTTPClient(client *http.Client) GoogleOption {
	return func(p *GoogleProvider) {
		p.httpClient = client
	}
}

// GoogleProvider signs users in with Google through OAuth 2.0 and OpenID Connect.
// Discovery is deferred to the first exchange so the screen can start offline.
type GoogleProvider struct {
	oauth2Config *oauth2.Config
	issuer       string
	httpClient   *http.Client

	mu          sync.Mutex
	verifier    *oidc.IDTokenVerifier
	userInfoURL string
}

var _ Provider = (*GoogleProvider)(nil)

func NewGoogleProvider(cfg *config.OAuthConfig, opts ...GoogleOption) *GoogleProvider {
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = config.DefaultIssuer
	}

	p := &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       cfg.Scopes,
		},
		issuer: issuer,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *GoogleProvider) Name() string {
	return constants.ProviderGoogle
}

func (p *GoogleProvider) Validate() error {
	if p.oauth2Config.ClientID == "" {
		return ErrMissingClientID
	}
	return nil
}

func (p *GoogleProvider) GetAuthURL(state, codeChallenge, codeChallengeMethod, redirectURI string) string {
	opts := []oauth2.AuthCodeOption{
		// Let the user pick an account, like the native account chooser does
		oauth2.SetAuthURLParam("prompt", "select_account"),
	}
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}
	if codeChallenge != "" {
		opts = append(opts,
			oauth2.SetAuthURLParam("code_challenge", codeChallenge),
			oauth2.SetAuthURLParam("code_challenge_method", codeChallengeMethod),
		)
	}
	return p.oauth2Config.AuthCodeURL(state, opts...)
}

func (p *GoogleProvider) ExchangeCode(ctx context.Context, code, codeVerifier, redirectURI string) (*oauth2.Token, error) {
	cfg := *p.oauth2Config // copy
	if redirectURI != "" {
		cfg.RedirectURL = redirectURI
	}

	opts := []oauth2.AuthCodeOption{}
	if codeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(codeVerifier))
	}

	token, err := cfg.Exchange(p.clientContext(ctx), code, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

// googleClaims holds the profile claims; pointers keep absent claims distinguishable
type googleClaims struct {
	Sub        *string `json:"sub"`
	Email      *string `json:"email"`
	Name       *string `json:"name"`
	GivenName  *string `json:"given_name"`
	FamilyName *string `json:"family_name"`
}

func (c googleClaims) account() *models.Account {
	return &models.Account{
		GivenName:   c.GivenName,
		FamilyName:  c.FamilyName,
		Email:       c.Email,
		ID:          c.Sub,
		DisplayName: c.Name,
	}
}

// Account reads the profile from the verified ID token, falling back to the
// userinfo endpoint when the token response carries no ID token.
func (p *GoogleProvider) Account(ctx context.Context, token *oauth2.Token) (*models.Account, error) {
	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		logger.Debug("No id_token in token response, using userinfo endpoint")
		return p.fetchUserInfo(ctx, token)
	}

	verifier, err := p.idTokenVerifier(ctx)
	if err != nil {
		return nil, err
	}

	idToken, err := verifier.Verify(p.clientContext(ctx), rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIDTokenVerification, err)
	}

	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}
	return claims.account(), nil
}

func (p *GoogleProvider) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*models.Account, error) {
	url, err := p.userInfoEndpoint(ctx)
	if err != nil {
		return nil, err
	}

	client := p.oauth2Config.Client(p.clientContext(ctx), token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("Failed to call userinfo endpoint", zap.Error(err))
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &UserInfoError{StatusCode: resp.StatusCode}
	}

	var claims googleClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	return claims.account(), nil
}

func (p *GoogleProvider) idTokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.verifier == nil {
		if err := p.discoverLocked(ctx); err != nil {
			return nil, err
		}
	}
	return p.verifier, nil
}

func (p *GoogleProvider) userInfoEndpoint(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.userInfoURL != "" {
		return p.userInfoURL, nil
	}
	if p.verifier != nil {
		// Verifier was injected, so discovery is off; use Google's well-known endpoint
		return defaultGoogleUserInfoURL, nil
	}
	if err := p.discoverLocked(ctx); err != nil {
		return "", err
	}
	if p.userInfoURL == "" {
		return defaultGoogleUserInfoURL, nil
	}
	return p.userInfoURL, nil
}

func (p *GoogleProvider) discoverLocked(ctx context.Context) error {
	logger.Debug("Running OIDC discovery", zap.String("issuer", p.issuer))

	provider, err := oidc.NewProvider(p.clientContext(ctx), p.issuer)
	if err != nil {
		return fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	p.verifier = provider.Verifier(&oidc.Config{ClientID: p.oauth2Config.ClientID})
	if p.userInfoURL == "" {
		p.userInfoURL = provider.UserInfoEndpoint()
	}
	return nil
}

// clientContext attaches the configured HTTP client for oauth2 and go-oidc
func (p *GoogleProvider) clientContext(ctx context.Context) context.Context {
	if p.httpClient == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	return oidc.ClientContext(ctx, p.httpClient)
}
