package registry

import "errors"

var (
	// ErrCreateUserFailed indicates that the backend rejected or failed the createUser mutation.
	ErrCreateUserFailed = errors.New("failed to create user record")
	// ErrEmptyCreateUserResponse indicates that the mutation succeeded without returning a record.
	ErrEmptyCreateUserResponse = errors.New("createUser returned no record")
	// ErrMissingUserID indicates that the payload has no user ID.
	ErrMissingUserID = errors.New("user ID is required")
	// ErrMissingIDToken indicates that no ID token was supplied to authenticate the mutation.
	ErrMissingIDToken = errors.New("ID token is required")
)
