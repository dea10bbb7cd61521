package authority

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the signed-in principal as confirmed by the authority.
type Identity struct {
	// UID is the provider-issued unique user ID.
	UID string
	// DisplayName is the user's display name, if set.
	DisplayName string
	// Email is the account email.
	Email string
	// EmailVerified reports whether the email address has been verified.
	EmailVerified bool
	// IDToken is the short-lived bearer token proving the identity.
	IDToken string
	// RefreshToken exchanges for a new ID token.
	RefreshToken string
	// ExpiresAt is when IDToken stops being accepted. Zero means unknown.
	ExpiresAt time.Time
}

// IsZero reports whether the identity is absent.
func (i Identity) IsZero() bool {
	return i.UID == ""
}

// Expired reports whether the ID token has expired at now.
// An identity without a known expiry is treated as expired.
func (i Identity) Expired(now time.Time) bool {
	return i.ExpiresAt.IsZero() || !now.Before(i.ExpiresAt)
}

// Claims decodes the ID token's claims without verifying its signature.
// Verification is the backend's job; the claims are only used for display.
func (i Identity) Claims() (jwt.MapClaims, error) {
	if i.IDToken == "" {
		return nil, ErrNoIDToken
	}

	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(i.IDToken, claims); err != nil {
		return nil, fmt.Errorf("failed to decode ID token: %w", err)
	}

	return claims, nil
}

// clone returns a copy of the identity, or nil for nil.
func (i *Identity) clone() *Identity {
	if i == nil {
		return nil
	}

	cloned := *i

	return &cloned
}
