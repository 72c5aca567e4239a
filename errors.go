package adminauth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeMissingCredentials = "MISSING_CREDENTIALS"
	textCodeMissingUsername    = "MISSING_USERNAME"
	textCodeCaptchaUnavailable = "CAPTCHA_UNAVAILABLE"
	textCodeCaptchaRequired    = "CAPTCHA_REQUIRED"
	textCodeDomainRejected     = "DOMAIN_REJECTED"
	textCodeUnauthorized       = "UNAUTHORIZED"
	textCodeTransportFailure   = "TRANSPORT_FAILURE"
	textCodeLoginInFlight      = "LOGIN_IN_FLIGHT"
	textCodeInvalidTransition  = "INVALID_SESSION_STATE_TRANSITION"
)

// defaultLoginFailureMessage is the generic fallback shown when the
// backend rejects a login without a human-readable message.
const defaultLoginFailureMessage = "login failed"

// ErrMissingCredentials is returned when a login attempt lacks a
// username or password.
var ErrMissingCredentials = goerrors.New("username and password are required", goerrors.CategoryValidation).
	WithTextCode(textCodeMissingCredentials).
	WithCode(goerrors.CodeBadRequest)

// ErrMissingUsername is returned when a captcha request lacks a username.
var ErrMissingUsername = goerrors.New("username is required", goerrors.CategoryValidation).
	WithTextCode(textCodeMissingUsername).
	WithCode(goerrors.CodeBadRequest)

// ErrCaptchaUnavailable is returned when no captcha code could be
// extracted from the backend response.
var ErrCaptchaUnavailable = goerrors.New("captcha code unavailable", goerrors.CategoryInternal).
	WithTextCode(textCodeCaptchaUnavailable).
	WithCode(goerrors.CodeInternal)

// ErrCaptchaRequired is the soft, retryable rejection that invites the
// caller to resubmit the login with a captcha code.
var ErrCaptchaRequired = goerrors.New("captcha verification required", goerrors.CategoryAuth).
	WithTextCode(textCodeCaptchaRequired).
	WithCode(goerrors.CodeUnauthorized)

// ErrUnauthorized signals that the backend rejected the credential.
// It is never only surfaced: the gateway additionally tears the
// session down.
var ErrUnauthorized = goerrors.New("session credential rejected", goerrors.CategoryAuth).
	WithTextCode(textCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// ErrLoginInFlight is returned when a second login is issued while one
// is still pending.
var ErrLoginInFlight = goerrors.New("a login attempt is already in flight", goerrors.CategoryConflict).
	WithTextCode(textCodeLoginInFlight).
	WithCode(goerrors.CodeConflict)

// ErrInvalidTransition is returned when a requested session state
// change is not allowed.
var ErrInvalidTransition = goerrors.New("invalid session state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// cloneWithMetadata copies a shared sentinel before attaching
// per-call metadata. WithMetadata writes into the receiver's map, so
// chaining it on the sentinel itself would leak one call's metadata
// into every other caller of the same sentinel.
func cloneWithMetadata(sentinel *goerrors.Error, metadata map[string]any) *goerrors.Error {
	clone := sentinel.Clone()
	if clone == nil {
		return sentinel
	}
	clone.Source = sentinel
	return clone.WithMetadata(metadata)
}

// newDomainRejected wraps a non-success domain code from the backend.
func newDomainRejected(message string, domainCode int) *goerrors.Error {
	if message == "" {
		message = defaultLoginFailureMessage
	}
	return goerrors.New(message, goerrors.CategoryAuth).
		WithTextCode(textCodeDomainRejected).
		WithCode(goerrors.CodeUnauthorized).
		WithMetadata(map[string]any{"domain_code": domainCode})
}

// newTransportFailure normalizes connectivity-level failures.
func newTransportFailure(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, "transport failure").
		WithTextCode(textCodeTransportFailure).
		WithCode(goerrors.CodeInternal)
}

// IsCaptchaRequiredError will check for the captcha signal in a backend
// rejection. The server error vocabulary is not enumerable client-side,
// so this is a message sniff on purpose.
func IsCaptchaRequiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		if richErr.TextCode == textCodeCaptchaRequired {
			return true
		}
		return strings.Contains(strings.ToLower(richErr.Message), "captcha")
	}
	return strings.Contains(strings.ToLower(err.Error()), "captcha")
}

// IsUnauthorizedError will check for a credential rejection.
func IsUnauthorizedError(err error) bool {
	return hasTextCode(err, textCodeUnauthorized)
}

// IsDomainRejectedError will check for a backend domain rejection.
func IsDomainRejectedError(err error) bool {
	return hasTextCode(err, textCodeDomainRejected)
}

// IsTransportFailureError will check for a connectivity failure.
func IsTransportFailureError(err error) bool {
	return hasTextCode(err, textCodeTransportFailure)
}

// DomainCodeFromError extracts the backend domain code attached to a
// domain rejection.
func DomainCodeFromError(err error) (int, bool) {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Metadata == nil {
		return 0, false
	}
	return coerceInt(richErr.Metadata["domain_code"])
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}
