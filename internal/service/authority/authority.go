package authority

//go:generate $MOCKGEN -source=authority.go -destination=mocks/authority_mock.go

import "context"

// Authority is the external authentication authority.
type Authority interface {
	// CreateCredential creates an email/password account and signs it in.
	CreateCredential(ctx context.Context, email, password string) (*Identity, error)
	// VerifyCredential signs in with an email/password pair.
	VerifyCredential(ctx context.Context, email, password string) (*Identity, error)
	// SendResetEmail asks the authority to email a password reset link.
	SendResetEmail(ctx context.Context, email string) error
	// InvalidateSession signs the current identity out.
	InvalidateSession(ctx context.Context) error
	// SubscribeToIdentityChanges streams the current identity, then every sign-in and sign-out.
	// A nil value means signed out. The channel is closed once ctx is done.
	SubscribeToIdentityChanges(ctx context.Context) (<-chan *Identity, error)
	// RefreshToken returns identity with a fresh ID token.
	// Unless force is set, an unexpired token is returned as is.
	RefreshToken(ctx context.Context, identity *Identity, force bool) (*Identity, error)
	// UpdateProfile sets the display name of identity.
	UpdateProfile(ctx context.Context, identity *Identity, displayName string) (*Identity, error)
}
