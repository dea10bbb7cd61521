package identity

import (
	"errors"
	"fmt"
	"strings"
)

// Static error definitions for better error handling.
var (
	// ErrUnexpectedHTTPStatus indicates a failed response without a decodable provider error.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrEmailExists indicates that the email address is already in use by another account.
	ErrEmailExists = errors.New("email already exists")
	// ErrEmailNotFound indicates that there is no account for the email address.
	ErrEmailNotFound = errors.New("email not found")
	// ErrInvalidPassword indicates that the password is wrong.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidCredentials indicates that the email/password pair was rejected.
	ErrInvalidCredentials = errors.New("invalid login credentials")
	// ErrUserDisabled indicates that the account has been disabled by an administrator.
	ErrUserDisabled = errors.New("user disabled")
	// ErrWeakPassword indicates that the password does not meet the provider's policy.
	ErrWeakPassword = errors.New("weak password")
	// ErrTooManyAttempts indicates that requests from this device are temporarily blocked.
	ErrTooManyAttempts = errors.New("too many attempts, try later")
	// ErrTokenExpired indicates that the credential is no longer valid and the user must sign in again.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidRefreshToken indicates that the refresh token is malformed or revoked.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrInvalidIDToken indicates that the ID token is malformed or no longer valid.
	ErrInvalidIDToken = errors.New("invalid ID token")
	// ErrUserNotFound indicates that the account behind a token no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidEmail indicates that the email address is badly formatted.
	ErrInvalidEmail = errors.New("invalid email")
)

// codeSentinels maps provider error codes onto the sentinel errors.
//
//nolint:gochecknoglobals // Immutable lookup table used as a constant.
var codeSentinels = map[string]error{
	"EMAIL_EXISTS":                   ErrEmailExists,
	"EMAIL_NOT_FOUND":                ErrEmailNotFound,
	"INVALID_PASSWORD":               ErrInvalidPassword,
	"INVALID_LOGIN_CREDENTIALS":      ErrInvalidCredentials,
	"USER_DISABLED":                  ErrUserDisabled,
	"WEAK_PASSWORD":                  ErrWeakPassword,
	"TOO_MANY_ATTEMPTS_TRY_LATER":    ErrTooManyAttempts,
	"TOKEN_EXPIRED":                  ErrTokenExpired,
	"CREDENTIAL_TOO_OLD_LOGIN_AGAIN": ErrTokenExpired,
	"INVALID_REFRESH_TOKEN":          ErrInvalidRefreshToken,
	"INVALID_GRANT_TYPE":             ErrInvalidRefreshToken,
	"MISSING_REFRESH_TOKEN":          ErrInvalidRefreshToken,
	"INVALID_ID_TOKEN":               ErrInvalidIDToken,
	"USER_NOT_FOUND":                 ErrUserNotFound,
	"INVALID_EMAIL":                  ErrInvalidEmail,
	"MISSING_EMAIL":                  ErrInvalidEmail,
}

// APIError is an error reported by the identity provider.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Code is the provider error code, e.g. "EMAIL_EXISTS".
	Code string
	// Message is the optional human-readable detail that follows the code.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("identity provider error %s (HTTP %d)", e.Code, e.StatusCode)
	}

	return fmt.Sprintf("identity provider error %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

// Is reports whether the provider code corresponds to target.
func (e *APIError) Is(target error) bool {
	sentinel, ok := codeSentinels[e.Code]

	return ok && sentinel == target
}

// newAPIError splits a provider message such as "WEAK_PASSWORD : Password should be at least 6 characters"
// into its code and detail.
func newAPIError(statusCode int, message string) *APIError {
	code, detail, _ := strings.Cut(message, ":")

	return &APIError{
		StatusCode: statusCode,
		Code:       strings.TrimSpace(code),
		Message:    strings.TrimSpace(detail),
	}
}

// IsRejectedCredential reports whether err means the stored session can never be used again,
// as opposed to a transient failure.
func IsRejectedCredential(err error) bool {
	return errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrInvalidRefreshToken) ||
		errors.Is(err, ErrInvalidIDToken) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrUserDisabled)
}
