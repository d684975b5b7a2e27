package providers

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/brizzai/google-signin/internal/auth/models"
	"github.com/brizzai/google-signin/internal/config"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	testClientID = "test-client-id"
	testIssuer   = "https://issuer.test"
)

// fakeGoogle plays the token and userinfo endpoints
type fakeGoogle struct {
	t          *testing.T
	server     *httptest.Server
	key        *rsa.PrivateKey
	idToken    string
	tokenError string
	userInfo   map[string]any
	lastForm   url.Values
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := &fakeGoogle{t: t, key: key}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", f.handleToken)
	mux.HandleFunc("/userinfo", f.handleUserInfo)
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGoogle) handleToken(w http.ResponseWriter, r *http.Request) {
	assert.NoError(f.t, r.ParseForm())
	f.lastForm = r.PostForm

	w.Header().Set("Content-Type", "application/json")
	if f.tokenError != "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             f.tokenError,
			"error_description": "rejected by fake",
		})
		return
	}

	resp := map[string]any{
		"access_token": "test-access-token",
		"token_type":   "Bearer",
		"expires_in":   3600,
	}
	if f.idToken != "" {
		resp["id_token"] = f.idToken
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeGoogle) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer test-access-token" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(f.userInfo)
}

func (f *fakeGoogle) signIDToken(claims jwt.MapClaims) string {
	f.t.Helper()
	now := time.Now()
	base := jwt.MapClaims{
		"iss": testIssuer,
		"aud": testClientID,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	for k, v := range claims {
		base[k] = v
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, base).SignedString(f.key)
	require.NoError(f.t, err)
	return signed
}

func (f *fakeGoogle) provider() *GoogleProvider {
	verifier := oidc.NewVerifier(testIssuer,
		&oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&f.key.PublicKey}},
		&oidc.Config{ClientID: testClientID},
	)
	return NewGoogleProvider(
		&config.OAuthConfig{ClientID: testClientID, ClientSecret: "secret", Scopes: []string{"openid", "email"}},
		WithEndpoint(oauth2.Endpoint{
			AuthURL:   f.server.URL + "/auth",
			TokenURL:  f.server.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		}),
		WithVerifier(verifier),
		WithUserInfoURL(f.server.URL+"/userinfo"),
		WithHTTPClient(f.server.Client()),
	)
}

func TestGoogleProvider_GetAuthURL(t *testing.T) {
	p := NewGoogleProvider(&config.OAuthConfig{
		ClientID: testClientID,
		Scopes:   []string{"openid", "profile", "email"},
	})

	raw := p.GetAuthURL("state-123", "challenge-abc", "S256", "http://127.0.0.1:5000/oauth/callback")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "accounts.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, testClientID, q.Get("client_id"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid profile email", q.Get("scope"))
	assert.Equal(t, "challenge-abc", q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "http://127.0.0.1:5000/oauth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "select_account", q.Get("prompt"))
}

func TestGoogleProvider_Validate(t *testing.T) {
	assert.ErrorIs(t, NewGoogleProvider(&config.OAuthConfig{}).Validate(), ErrMissingClientID)
	assert.NoError(t, NewGoogleProvider(&config.OAuthConfig{ClientID: testClientID}).Validate())
	assert.Equal(t, "google", NewGoogleProvider(&config.OAuthConfig{}).Name())
}

func TestGoogleProvider_ExchangeAndAccountFromIDToken(t *testing.T) {
	f := newFakeGoogle(t)
	f.idToken = f.signIDToken(jwt.MapClaims{
		"sub":   "42",
		"email": "a@b.com",
		"name":  "Ada Lovelace",
	})
	p := f.provider()
	ctx := context.Background()

	token, err := p.ExchangeCode(ctx, "auth-code", "verifier-xyz", "http://127.0.0.1:5000/oauth/callback")
	require.NoError(t, err)
	assert.Equal(t, "auth-code", f.lastForm.Get("code"))
	assert.Equal(t, "verifier-xyz", f.lastForm.Get("code_verifier"))
	assert.Equal(t, "http://127.0.0.1:5000/oauth/callback", f.lastForm.Get("redirect_uri"))
	assert.Equal(t, testClientID, f.lastForm.Get("client_id"))

	account, err := p.Account(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.UserProfile{
		DisplayName: "Ada Lovelace",
		ID:          "42",
		Email:       "a@b.com",
	}, account.Profile())
	assert.Nil(t, account.GivenName)
	assert.Nil(t, account.FamilyName)
}

func TestGoogleProvider_AccountRejectsForeignAudience(t *testing.T) {
	f := newFakeGoogle(t)
	f.idToken = f.signIDToken(jwt.MapClaims{"sub": "42", "aud": "someone-else"})
	p := f.provider()
	ctx := context.Background()

	token, err := p.ExchangeCode(ctx, "auth-code", "", "")
	require.NoError(t, err)

	_, err = p.Account(ctx, token)
	require.ErrorIs(t, err, ErrIDTokenVerification)
	assert.Equal(t, models.StatusSignInFailed, Classify(err).Code)
}

func TestGoogleProvider_AccountFromUserInfo(t *testing.T) {
	f := newFakeGoogle(t)
	f.userInfo = map[string]any{
		"sub":         "7",
		"given_name":  "Grace",
		"family_name": "Hopper",
	}
	p := f.provider()
	ctx := context.Background()

	token, err := p.ExchangeCode(ctx, "auth-code", "", "")
	require.NoError(t, err)

	account, err := p.Account(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.UserProfile{
		ID:         "7",
		GivenName:  "Grace",
		FamilyName: "Hopper",
	}, account.Profile())
	assert.Nil(t, account.Email)
}

func TestGoogleProvider_ExchangeRejected(t *testing.T) {
	f := newFakeGoogle(t)
	f.tokenError = "invalid_client"
	p := f.provider()

	_, err := p.ExchangeCode(context.Background(), "auth-code", "", "")
	require.Error(t, err)

	signInErr := Classify(err)
	assert.Equal(t, models.StatusDeveloperError, signInErr.Code)
	assert.Equal(t, "DEVELOPER_ERROR", signInErr.Status)
	assert.Equal(t, "rejected by fake", signInErr.Message)
}

func TestGoogleProvider_DiscoversUserInfoEndpoint(t *testing.T) {
	var issuer string
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + "/auth",
			"token_endpoint":         issuer + "/token",
			"jwks_uri":               issuer + "/keys",
			"userinfo_endpoint":      issuer + "/userinfo",
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"sub": "99", "email": "d@e.com"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	issuer = srv.URL

	p := NewGoogleProvider(
		&config.OAuthConfig{ClientID: testClientID, Issuer: issuer},
		WithHTTPClient(srv.Client()),
	)

	account, err := p.Account(context.Background(), &oauth2.Token{AccessToken: "opaque", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, "99", account.Profile().ID)
	assert.Equal(t, "d@e.com", account.Profile().Email)
}

func TestGoogleProvider_DiscoveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	p := NewGoogleProvider(
		&config.OAuthConfig{ClientID: testClientID, Issuer: srv.URL},
		WithHTTPClient(srv.Client()),
	)

	_, err := p.Account(context.Background(), (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]any{"id_token": "x.y.z"}))
	assert.Error(t, err)
}
