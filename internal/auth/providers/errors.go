package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/brizzai/google-signin/internal/auth/constants"
	"github.com/brizzai/google-signin/internal/auth/models"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

var (
	// ErrMissingClientID means no OAuth client ID was configured
	ErrMissingClientID = errors.New("oauth client id is not configured")

	// ErrStateMismatch means the redirect carried a state the launcher did not issue
	ErrStateMismatch = errors.New("state parameter does not match")

	// ErrIDTokenVerification wraps every ID token verification failure
	ErrIDTokenVerification = errors.New("failed to verify ID token")

	// ErrMissingCode means the redirect carried neither a code nor an error
	ErrMissingCode = errors.New("authorization code is missing")
)

// AuthorizationError is an error returned by the authorization endpoint on the redirect
type AuthorizationError struct {
	Code        string
	Description string
}

func (e *AuthorizationError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("authorization failed: %s", e.Code)
	}
	return fmt.Sprintf("authorization failed: %s: %s", e.Code, e.Description)
}

// UserInfoError is a non-200 answer from the userinfo endpoint
type UserInfoError struct {
	StatusCode int
}

func (e *UserInfoError) Error() string {
	return fmt.Sprintf("userinfo request failed with status %d", e.StatusCode)
}

// Classify converts any error produced during a sign-in attempt into the
// provider error shown to the user.
func Classify(err error) *models.SignInError {
	if err == nil {
		return nil
	}

	var signInErr *models.SignInError
	if errors.As(err, &signInErr) {
		return signInErr
	}

	switch {
	case errors.Is(err, context.Canceled):
		return models.NewSignInError(models.StatusCanceled, "sign-in was canceled", err)
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewSignInError(models.StatusTimeout, "sign-in timed out", err)
	case errors.Is(err, ErrMissingClientID):
		return models.NewSignInError(models.StatusDeveloperError, err.Error(), err)
	case errors.Is(err, ErrStateMismatch), errors.Is(err, ErrIDTokenVerification), errors.Is(err, ErrMissingCode):
		return models.NewSignInError(models.StatusSignInFailed, err.Error(), err)
	}

	var authErr *AuthorizationError
	if errors.As(err, &authErr) {
		return models.NewSignInError(codeForOAuthError(authErr.Code), messageOr(authErr.Description, authErr.Code), err)
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		code := codeForOAuthError(retrieveErr.ErrorCode)
		if retrieveErr.ErrorCode == "" && retrieveErr.Response != nil {
			code = codeForHTTPStatus(retrieveErr.Response.StatusCode)
		}
		return models.NewSignInError(code, messageOr(retrieveErr.ErrorDescription, retrieveErr.ErrorCode, err.Error()), err)
	}

	var expiredErr *oidc.TokenExpiredError
	if errors.As(err, &expiredErr) {
		return models.NewSignInError(models.StatusSignInFailed, err.Error(), err)
	}

	var userInfoErr *UserInfoError
	if errors.As(err, &userInfoErr) {
		return models.NewSignInError(codeForHTTPStatus(userInfoErr.StatusCode), err.Error(), err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return models.NewSignInError(models.StatusNetworkError, err.Error(), err)
	}

	return models.NewSignInError(models.StatusError, err.Error(), err)
}

func codeForOAuthError(code string) int {
	switch code {
	case constants.ErrAccessDenied:
		return models.StatusSignInCancelled
	case constants.ErrInvalidClient, constants.ErrUnauthorizedClient, constants.ErrRedirectURIMismatch,
		constants.ErrInvalidRequest, constants.ErrInvalidScope, constants.ErrUnsupportedGrantType:
		return models.StatusDeveloperError
	case constants.ErrInvalidGrant:
		return models.StatusSignInFailed
	case constants.ErrServerError, constants.ErrTemporarilyUnavailable:
		return models.StatusInternalError
	default:
		return models.StatusError
	}
}

func codeForHTTPStatus(status int) int {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return models.StatusSignInRequired
	case status >= http.StatusInternalServerError:
		return models.StatusInternalError
	default:
		return models.StatusError
	}
}

func messageOr(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
