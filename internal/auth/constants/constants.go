package constants

const (
	// CodeChallengeMethod is the only PKCE method the sign-in flow uses
	CodeChallengeMethod = "S256"

	// ProviderGoogle names the Google identity provider
	ProviderGoogle = "google"

	// ProviderFacebook names the Facebook trigger, which has no provider behind it
	ProviderFacebook = "facebook"

	// FailureHeadline opens every sign-in failure message shown to the user
	FailureHeadline = "Can not get access from google Account."
)

// Query parameters of the loopback redirect
const (
	ParamCode             = "code"
	ParamState            = "state"
	ParamError            = "error"
	ParamErrorDescription = "error_description"
)

// OAuth error codes returned by the authorization and token endpoints
const (
	ErrAccessDenied           = "access_denied"
	ErrInvalidRequest         = "invalid_request"
	ErrInvalidClient          = "invalid_client"
	ErrInvalidGrant           = "invalid_grant"
	ErrInvalidScope           = "invalid_scope"
	ErrUnauthorizedClient     = "unauthorized_client"
	ErrUnsupportedGrantType   = "unsupported_grant_type"
	ErrRedirectURIMismatch    = "redirect_uri_mismatch"
	ErrServerError            = "server_error"
	ErrTemporarilyUnavailable = "temporarily_unavailable"
)
