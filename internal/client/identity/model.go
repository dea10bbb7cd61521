package identity

import (
	"strconv"
	"time"
)

type (
	// passwordRequest is the body of accounts:signUp and accounts:signInWithPassword.
	passwordRequest struct {
		Email             string `json:"email"`
		Password          string `json:"password"`
		ReturnSecureToken bool   `json:"returnSecureToken"`
	}

	// oobCodeRequest is the body of accounts:sendOobCode.
	oobCodeRequest struct {
		RequestType string `json:"requestType"`
		Email       string `json:"email"`
	}

	// lookupRequest is the body of accounts:lookup.
	lookupRequest struct {
		IDToken string `json:"idToken"`
	}

	// updateRequest is the body of accounts:update.
	updateRequest struct {
		IDToken           string   `json:"idToken"`
		DisplayName       string   `json:"displayName,omitempty"`
		DeleteAttribute   []string `json:"deleteAttribute,omitempty"`
		ReturnSecureToken bool     `json:"returnSecureToken"`
	}

	// errorResponse is the error envelope shared by both APIs.
	errorResponse struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	// oobCodeResponse is the reply of accounts:sendOobCode.
	oobCodeResponse struct {
		Email string `json:"email"`
	}

	// lookupResponse is the reply of accounts:lookup.
	lookupResponse struct {
		Users []*AccountInfo `json:"users"`
	}
)

// AuthResponse is returned by sign-up, sign-in and profile updates.
type AuthResponse struct {
	// LocalID is the provider-issued user ID.
	LocalID string `json:"localId"`
	// Email is the account email.
	Email string `json:"email"`
	// DisplayName is the account display name, if any.
	DisplayName string `json:"displayName,omitempty"`
	// IDToken is the short-lived ID token.
	IDToken string `json:"idToken"`
	// RefreshToken exchanges for a new ID token.
	RefreshToken string `json:"refreshToken"`
	// ExpiresIn is the ID token lifetime in seconds, encoded as a string.
	ExpiresIn string `json:"expiresIn"`
	// Registered is set by sign-in when the email belongs to an existing account.
	Registered bool `json:"registered,omitempty"`
}

// ExpiresInDuration returns the ID token lifetime.
func (r *AuthResponse) ExpiresInDuration() time.Duration {
	return parseSeconds(r.ExpiresIn)
}

// TokenResponse is returned by the Secure Token API.
type TokenResponse struct {
	// IDToken is the new ID token.
	IDToken string `json:"id_token"`
	// RefreshToken is the refresh token to use next time.
	RefreshToken string `json:"refresh_token"`
	// ExpiresIn is the ID token lifetime in seconds, encoded as a string.
	ExpiresIn string `json:"expires_in"`
	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`
	// UserID is the provider-issued user ID.
	UserID string `json:"user_id"`
	// ProjectID is the Firebase project number.
	ProjectID string `json:"project_id"`
}

// ExpiresInDuration returns the ID token lifetime.
func (r *TokenResponse) ExpiresInDuration() time.Duration {
	return parseSeconds(r.ExpiresIn)
}

// AccountInfo describes an account as returned by accounts:lookup.
type AccountInfo struct {
	LocalID       string `json:"localId"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	DisplayName   string `json:"displayName,omitempty"`
	PhotoURL      string `json:"photoUrl,omitempty"`
	Disabled      bool   `json:"disabled,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	LastLoginAt   string `json:"lastLoginAt,omitempty"`
}

func parseSeconds(value string) time.Duration {
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil || seconds < 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}
