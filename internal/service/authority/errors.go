package authority

import "errors"

var (
	// ErrNoIdentity indicates that an operation needs a signed-in identity.
	ErrNoIdentity = errors.New("no signed-in identity")
	// ErrNoIDToken indicates that the identity carries no ID token to decode.
	ErrNoIDToken = errors.New("identity has no ID token")
)
