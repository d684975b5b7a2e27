package models

import "fmt"

// Provider status codes. The numbering follows the status vocabulary of
// Google's sign-in client libraries so that codes read the same in logs.
const (
	StatusSignInRequired            = 4
	StatusInvalidAccount            = 5
	StatusNetworkError              = 7
	StatusInternalError             = 8
	StatusDeveloperError            = 10
	StatusError                     = 13
	StatusInterrupted               = 14
	StatusTimeout                   = 15
	StatusCanceled                  = 16
	StatusSignInFailed              = 12500
	StatusSignInCancelled           = 12501
	StatusSignInCurrentlyInProgress = 12502
)

var statusLabels = map[int]string{
	StatusSignInRequired:            "SIGN_IN_REQUIRED",
	StatusInvalidAccount:            "INVALID_ACCOUNT",
	StatusNetworkError:              "NETWORK_ERROR",
	StatusInternalError:             "INTERNAL_ERROR",
	StatusDeveloperError:            "DEVELOPER_ERROR",
	StatusError:                     "ERROR",
	StatusInterrupted:               "INTERRUPTED",
	StatusTimeout:                   "TIMEOUT",
	StatusCanceled:                  "CANCELED",
	StatusSignInFailed:              "SIGN_IN_FAILED",
	StatusSignInCancelled:           "SIGN_IN_CANCELLED",
	StatusSignInCurrentlyInProgress: "SIGN_IN_CURRENTLY_IN_PROGRESS",
}

// StatusLabel returns the label for a status code, or UNKNOWN
func StatusLabel(code int) string {
	if label, ok := statusLabels[code]; ok {
		return label
	}
	return "UNKNOWN"
}

// SignInError is the provider-side failure of a sign-in attempt
type SignInError struct {
	Code    int
	Status  string
	Message string
	Err     error
}

// NewSignInError builds a SignInError whose Status is the label of code
func NewSignInError(code int, message string, err error) *SignInError {
	return &SignInError{
		Code:    code,
		Status:  StatusLabel(code),
		Message: message,
		Err:     err,
	}
}

func (e *SignInError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d: %s", e.Code, e.Status)
	}
	return fmt.Sprintf("%d: %s: %s", e.Code, e.Status, e.Message)
}

func (e *SignInError) Unwrap() error {
	return e.Err
}
