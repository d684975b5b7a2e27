package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallback_DeliversFirstRedirectOnly(t *testing.T) {
	results := make(chan CallbackResult, 1)
	cb := NewCallback(results)

	rec := httptest.NewRecorder()
	cb.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/callback?code=abc&state=s1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Signed in")

	require.Len(t, results, 1)
	got := <-results
	assert.Equal(t, CallbackResult{Code: "abc", State: "s1"}, got)

	rec = httptest.NewRecorder()
	cb.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/callback?code=other&state=s1", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, results)
}

func TestCallback_ProviderError(t *testing.T) {
	results := make(chan CallbackResult, 1)
	cb := NewCallback(results)

	rec := httptest.NewRecorder()
	cb.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/oauth/callback?error=access_denied&error_description=user+said+no&state=s1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "did not complete")
	assert.Equal(t, CallbackResult{State: "s1", Error: "access_denied", ErrorDescription: "user said no"}, <-results)
}

func TestCallback_MethodNotAllowed(t *testing.T) {
	results := make(chan CallbackResult, 1)
	cb := NewCallback(results)

	rec := httptest.NewRecorder()
	cb.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/oauth/callback", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(t, results)
}

func TestCallback_IgnoresStrayRequests(t *testing.T) {
	results := make(chan CallbackResult, 1)
	cb := NewCallback(results)

	for _, target := range []string{
		"/oauth/callback",
		"/oauth/callback?state=s1",
		"/oauth/callback?code=abc",
		"/oauth/callback?error=access_denied",
	} {
		rec := httptest.NewRecorder()
		cb.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Empty(t, results, target)
	}

	// The real redirect still gets through afterwards
	rec := httptest.NewRecorder()
	cb.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/callback?code=abc&state=s1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, CallbackResult{Code: "abc", State: "s1"}, <-results)
}
