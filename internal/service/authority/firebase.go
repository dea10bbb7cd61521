package authority

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/jetlist-session/internal/client/identity"
	"github.com/oshokin/jetlist-session/internal/logger"
	"github.com/oshokin/jetlist-session/internal/utils"
)

// FirebaseAuthority implements Authority on top of the Firebase Identity Toolkit.
// The persisted session is restored lazily on the first subscription.
type FirebaseAuthority struct {
	// client talks to the identity provider.
	client identity.Client
	// persistence keeps the refresh token between runs.
	persistence Persistence
	// now returns the current time.
	now func() time.Time

	// initMu serializes session restoration.
	initMu sync.Mutex

	// mu guards the fields below.
	mu sync.Mutex
	// initialized is set once the current identity is known.
	initialized bool
	// current is the signed-in identity, nil when signed out.
	current *Identity
	// subscribers receive identity changes.
	subscribers map[uint64]chan *Identity
	// nextSubscriberID identifies the next subscriber.
	nextSubscriberID uint64
}

// NewFirebaseAuthority creates and returns a new instance of FirebaseAuthority.
func NewFirebaseAuthority(client identity.Client, persistence Persistence) *FirebaseAuthority {
	return &FirebaseAuthority{
		client:      client,
		persistence: persistence,
		now:         time.Now,
		subscribers: make(map[uint64]chan *Identity),
	}
}

// CreateCredential creates an email/password account and signs it in.
func (a *FirebaseAuthority) CreateCredential(ctx context.Context, email, password string) (*Identity, error) {
	response, err := a.client.SignUp(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	return a.signIn(ctx, response), nil
}

// VerifyCredential signs in with an email/password pair.
func (a *FirebaseAuthority) VerifyCredential(ctx context.Context, email, password string) (*Identity, error) {
	response, err := a.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify credential: %w", err)
	}

	return a.signIn(ctx, response), nil
}

// SendResetEmail asks the provider to email a password reset link.
func (a *FirebaseAuthority) SendResetEmail(ctx context.Context, email string) error {
	if err := a.client.SendPasswordResetEmail(ctx, email); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}

// InvalidateSession forgets the persisted session and notifies subscribers.
// The REST API has no server-side sign-out, so this is purely local.
func (a *FirebaseAuthority) InvalidateSession(ctx context.Context) error {
	a.mu.Lock()
	a.initialized = true
	a.current = nil
	a.publishLocked(nil)
	err := a.persistence.Clear()
	a.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}

	logger.Debug(ctx, "Session invalidated")

	return nil
}

// SubscribeToIdentityChanges streams the current identity, then every sign-in and sign-out.
// Each subscriber has a single-slot buffer: a slow reader sees only the latest state.
func (a *FirebaseAuthority) SubscribeToIdentityChanges(ctx context.Context) (<-chan *Identity, error) {
	if err := a.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextSubscriberID
	a.nextSubscriberID++

	changes := make(chan *Identity, 1)
	changes <- a.current.clone()
	a.subscribers[id] = changes

	go func() {
		<-ctx.Done()

		a.mu.Lock()
		delete(a.subscribers, id)
		close(changes)
		a.mu.Unlock()
	}()

	return changes, nil
}

// RefreshToken returns current with a fresh ID token.
// A token the provider rejects signs the identity out.
func (a *FirebaseAuthority) RefreshToken(ctx context.Context, current *Identity, force bool) (*Identity, error) {
	if current == nil {
		return nil, ErrNoIdentity
	}

	if !force && !current.Expired(a.now()) {
		return current.clone(), nil
	}

	response, err := a.client.RefreshToken(ctx, current.RefreshToken)
	if err != nil {
		if identity.IsRejectedCredential(err) {
			logger.Infof(ctx, "Session of %s was rejected by the provider, signing out", current.UID)
			a.signOutIfCurrent(current.UID)
		}

		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	refreshed := current.clone()
	refreshed.IDToken = response.IDToken
	refreshed.RefreshToken = response.RefreshToken
	refreshed.ExpiresAt = a.expiresAt(response.ExpiresInDuration())

	a.updateIfCurrent(ctx, refreshed)

	return refreshed.clone(), nil
}

// UpdateProfile sets the display name of current.
func (a *FirebaseAuthority) UpdateProfile(ctx context.Context, current *Identity, displayName string) (*Identity, error) {
	if current == nil {
		return nil, ErrNoIdentity
	}

	response, err := a.client.UpdateProfile(ctx, current.IDToken, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	updated := current.clone()
	updated.DisplayName = response.DisplayName

	if response.IDToken != "" {
		updated.IDToken = response.IDToken
		updated.RefreshToken = response.RefreshToken
		updated.ExpiresAt = a.expiresAt(response.ExpiresInDuration())
	}

	a.updateIfCurrent(ctx, updated)

	return updated.clone(), nil
}

// ensureInitialized restores the persisted session once.
func (a *FirebaseAuthority) ensureInitialized(ctx context.Context) error {
	a.initMu.Lock()
	defer a.initMu.Unlock()

	a.mu.Lock()
	initialized := a.initialized
	a.mu.Unlock()

	if initialized {
		return nil
	}

	restored, rejected, err := a.restore(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		if a.initialized {
			logger.Warnf(ctx, "Failed to restore session, keeping the newer one: %v", err)

			return nil
		}

		return err
	}

	// A sign-in or sign-out that completed during restoration wins, on disk too.
	if a.initialized {
		logger.Debug(ctx, "Session changed during restoration, discarding the restored one")

		return nil
	}

	a.initialized = true
	a.current = restored

	switch {
	case restored != nil:
		a.persist(ctx, restored.RefreshToken)
	case rejected:
		if clearErr := a.persistence.Clear(); clearErr != nil {
			logger.Warnf(ctx, "Failed to clear persisted session: %v", clearErr)
		}
	}

	return nil
}

// restore rebuilds the identity from the persisted refresh token without writing anything back.
// A token the provider rejects yields no identity and rejected set to true.
func (a *FirebaseAuthority) restore(ctx context.Context) (*Identity, bool, error) {
	refreshToken, err := a.persistence.Load()
	if err != nil {
		return nil, false, fmt.Errorf("failed to load persisted session: %w", err)
	}

	if refreshToken == "" {
		logger.Debug(ctx, "No persisted session")

		return nil, false, nil
	}

	token, err := a.client.RefreshToken(ctx, refreshToken)
	if err != nil {
		return rejectedOrError(ctx, fmt.Errorf("failed to refresh persisted session: %w", err))
	}

	account, err := a.client.LookupAccount(ctx, token.IDToken)
	if err != nil {
		return rejectedOrError(ctx, fmt.Errorf("failed to look up persisted account: %w", err))
	}

	restored := &Identity{
		UID:           account.LocalID,
		DisplayName:   account.DisplayName,
		Email:         account.Email,
		EmailVerified: account.EmailVerified,
		IDToken:       token.IDToken,
		RefreshToken:  token.RefreshToken,
		ExpiresAt:     a.expiresAt(token.ExpiresInDuration()),
	}

	logger.Infof(ctx, "Restored session of %s", utils.MaskEmail(restored.Email))

	return restored, false, nil
}

// rejectedOrError reports a session the provider no longer accepts as signed out and rejected.
// Any other error is returned as is.
func rejectedOrError(ctx context.Context, err error) (*Identity, bool, error) {
	if !identity.IsRejectedCredential(err) {
		return nil, false, err
	}

	logger.Infof(ctx, "Persisted session is no longer valid: %v", err)

	return nil, true, nil
}

// signIn turns a successful sign-in or sign-up into the current identity and notifies subscribers.
func (a *FirebaseAuthority) signIn(ctx context.Context, response *identity.AuthResponse) *Identity {
	signedIn := &Identity{
		UID:          response.LocalID,
		DisplayName:  response.DisplayName,
		Email:        response.Email,
		IDToken:      response.IDToken,
		RefreshToken: response.RefreshToken,
		ExpiresAt:    a.expiresAt(response.ExpiresInDuration()),
	}

	// Sign-in responses omit the verification flag.
	account, err := a.client.LookupAccount(ctx, response.IDToken)
	if err != nil {
		logger.Warnf(ctx, "Failed to look up account %s: %v", signedIn.UID, err)
	} else {
		signedIn.EmailVerified = account.EmailVerified

		if signedIn.DisplayName == "" {
			signedIn.DisplayName = account.DisplayName
		}
	}

	a.mu.Lock()
	a.initialized = true
	a.current = signedIn.clone()
	a.publishLocked(signedIn)
	a.persist(ctx, signedIn.RefreshToken)
	a.mu.Unlock()

	logger.Debugf(ctx, "Signed in %s", utils.MaskEmail(signedIn.Email))

	return signedIn.clone()
}

// updateIfCurrent stores updated silently when it is still the signed-in identity.
func (a *FirebaseAuthority) updateIfCurrent(ctx context.Context, updated *Identity) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil || a.current.UID != updated.UID {
		return
	}

	a.current = updated.clone()
	a.persist(ctx, updated.RefreshToken)
}

// signOutIfCurrent signs out when uid is still the signed-in identity.
func (a *FirebaseAuthority) signOutIfCurrent(uid string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil || a.current.UID != uid {
		return
	}

	a.current = nil
	a.publishLocked(nil)

	if err := a.persistence.Clear(); err != nil {
		logger.Warnf(context.Background(), "Failed to clear persisted session: %v", err)
	}
}

// persist saves the refresh token, logging failures: the session keeps working without it.
// The caller must hold a.mu so that the stored token follows the in-memory identity.
func (a *FirebaseAuthority) persist(ctx context.Context, refreshToken string) {
	if err := a.persistence.Save(refreshToken); err != nil {
		logger.Warnf(ctx, "Failed to persist session: %v", err)
	}
}

// publishLocked delivers value to every subscriber, replacing any undelivered value.
// The caller must hold a.mu.
func (a *FirebaseAuthority) publishLocked(value *Identity) {
	for _, changes := range a.subscribers {
		select {
		case changes <- value.clone():
			continue
		default:
		}

		// Drop the stale value; only publishers send and they hold a.mu, so the slot stays free.
		select {
		case <-changes:
		default:
		}

		changes <- value.clone()
	}
}

func (a *FirebaseAuthority) expiresAt(lifetime time.Duration) time.Time {
	if lifetime <= 0 {
		return time.Time{}
	}

	return a.now().Add(lifetime)
}
