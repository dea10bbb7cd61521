package session

import (
	"errors"
	"fmt"

	"github.com/oshokin/jetlist-session/internal/client/registry"
	"github.com/oshokin/jetlist-session/internal/service/authority"
)

// Static error definitions for better error handling.
var (
	// ErrSubscription indicates that the identity-change subscription could not be established.
	ErrSubscription = errors.New("failed to subscribe to identity changes")
	// ErrRegistrationIncomplete indicates that the account exists but the backend has no user record for it.
	ErrRegistrationIncomplete = errors.New("account created but user registration failed")
	// ErrNotSignedIn indicates that the operation needs a signed-in identity.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrIdentityMismatch indicates that the registration payload belongs to another user.
	ErrIdentityMismatch = errors.New("registration payload does not match the signed-in identity")
)

// RegistrationError reports a partially successful account creation:
// the credential exists and is signed in, but the user record was not stored.
// Pass Input to Coordinator.RetryRegistration to finish.
type RegistrationError struct {
	// Identity is the newly created identity.
	Identity authority.Identity
	// Input is the registration payload that failed.
	Input registry.UserInput
	// Err is the registration failure.
	Err error
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("%s for %s: %v", ErrRegistrationIncomplete, e.Identity.UID, e.Err)
}

// Unwrap exposes both ErrRegistrationIncomplete and the underlying failure.
func (e *RegistrationError) Unwrap() []error {
	return []error{ErrRegistrationIncomplete, e.Err}
}
