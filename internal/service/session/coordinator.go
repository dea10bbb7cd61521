package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/jetlist-session/internal/client/registry"
	"github.com/oshokin/jetlist-session/internal/logger"
	"github.com/oshokin/jetlist-session/internal/service/authority"
	"github.com/oshokin/jetlist-session/internal/utils"
)

// Coordinator owns the current identity and mediates every change to it.
//
// Overlapping sign-ins are not fenced: whichever completes last sets the identity.
type Coordinator struct {
	// authority is the external authentication authority.
	authority authority.Authority
	// registry stores the user records of new accounts.
	registry registry.Client

	// mu guards the fields below.
	mu sync.RWMutex
	// current is the signed-in identity, nil when signed out.
	current *authority.Identity
	// subscribers receive the coordinator's identity changes.
	subscribers map[uint64]chan authority.Identity
	// nextSubscriberID identifies the next subscriber.
	nextSubscriberID uint64
}

// NewCoordinator creates and returns a new instance of Coordinator.
func NewCoordinator(auth authority.Authority, registryClient registry.Client) *Coordinator {
	return &Coordinator{
		authority:   auth,
		registry:    registryClient,
		subscribers: make(map[uint64]chan authority.Identity),
	}
}

// RestoreSession takes the authority's first identity notification and then unsubscribes.
// It reports whether a session was restored. Later changes are not observed; use Watch for that.
func (c *Coordinator) RestoreSession(ctx context.Context) (bool, error) {
	subscriptionCtx, unsubscribe := context.WithCancel(ctx)
	defer unsubscribe()

	changes, err := c.authority.SubscribeToIdentityChanges(subscriptionCtx)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrSubscription, err)
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case restored, ok := <-changes:
		if !ok {
			return false, fmt.Errorf("%w: channel closed before the first notification", ErrSubscription)
		}

		c.setIdentity(restored)

		return restored != nil, nil
	}
}

// Watch applies every identity notification from the authority until ctx is done.
func (c *Coordinator) Watch(ctx context.Context) error {
	changes, err := c.authority.SubscribeToIdentityChanges(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSubscription, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}

			c.setIdentity(change)
		}
	}
}

// Subscribe streams the coordinator's identity, starting with the current one.
// The zero Identity means signed out. A slow reader sees only the latest value.
// The channel is closed once ctx is done.
func (c *Coordinator) Subscribe(ctx context.Context) <-chan authority.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubscriberID
	c.nextSubscriberID++

	changes := make(chan authority.Identity, 1)
	changes <- valueOf(c.current)
	c.subscribers[id] = changes

	go func() {
		<-ctx.Done()

		c.mu.Lock()
		delete(c.subscribers, id)
		close(changes)
		c.mu.Unlock()
	}()

	return changes
}

// CreateAccount creates a credential, registers the user with the backend and refreshes the token.
//
// The new identity is held as soon as the credential exists. If registration fails, the account
// stays signed in and a *RegistrationError is returned; RetryRegistration finishes the job.
// A failed final refresh is only logged.
func (c *Coordinator) CreateAccount(ctx context.Context, firstName, lastName, email, password string) (bool, error) {
	created, err := c.authority.CreateCredential(ctx, email, password)
	if err != nil {
		return false, err
	}

	c.setIdentity(created)

	input := registry.UserInput{
		ID:        created.UID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	}

	if err = c.register(ctx, created, input); err != nil {
		return false, err
	}

	logger.Infof(ctx, "Created account for %s", utils.MaskEmail(email))

	return true, nil
}

// RetryRegistration registers the signed-in identity with the backend again after a failed CreateAccount.
func (c *Coordinator) RetryRegistration(ctx context.Context, input registry.UserInput) error {
	current, ok := c.CurrentIdentity()
	if !ok {
		return ErrNotSignedIn
	}

	if input.ID != current.UID {
		return fmt.Errorf("%w: payload is for %q, signed in as %q", ErrIdentityMismatch, input.ID, current.UID)
	}

	// The token may have expired since the first attempt.
	fresh, err := c.authority.RefreshToken(ctx, &current, false)
	if err != nil {
		return fmt.Errorf("failed to refresh token before registration: %w", err)
	}

	return c.register(ctx, fresh, input)
}

// Login verifies the credentials with the authority and holds the confirmed identity.
func (c *Coordinator) Login(ctx context.Context, email, password string) (bool, error) {
	signedIn, err := c.authority.VerifyCredential(ctx, email, password)
	if err != nil {
		return false, err
	}

	c.setIdentity(signedIn)

	logger.Infof(ctx, "Signed in as %s, token expires %s",
		utils.MaskEmail(signedIn.Email), humanize.Time(signedIn.ExpiresAt))

	return true, nil
}

// ResetPassword asks the authority to send a password reset email.
// The boolean is false whenever an error is returned.
func (c *Coordinator) ResetPassword(ctx context.Context, email string) (bool, error) {
	if err := c.authority.SendResetEmail(ctx, email); err != nil {
		return false, err
	}

	return true, nil
}

// Logout asks the authority to end the session.
// The identity is cleared by the authority's sign-out notification, not here.
func (c *Coordinator) Logout(ctx context.Context) error {
	return c.authority.InvalidateSession(ctx)
}

// UpdateDisplayName sets the display name of the signed-in identity.
func (c *Coordinator) UpdateDisplayName(ctx context.Context, displayName string) error {
	current, ok := c.CurrentIdentity()
	if !ok {
		return ErrNotSignedIn
	}

	updated, err := c.authority.UpdateProfile(ctx, &current, strings.TrimSpace(displayName))
	if err != nil {
		return err
	}

	c.setIdentity(updated)

	return nil
}

// CurrentIdentity returns a copy of the signed-in identity.
func (c *Coordinator) CurrentIdentity() (authority.Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return authority.Identity{}, false
	}

	return *c.current, true
}

// IsSignedIn reports whether an identity is held.
func (c *Coordinator) IsSignedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.current != nil
}

// register stores the user record and then forces a token refresh so that
// the new token reflects the registration.
func (c *Coordinator) register(ctx context.Context, owner *authority.Identity, input registry.UserInput) error {
	if _, err := c.registry.CreateUser(ctx, owner.IDToken, input); err != nil {
		return &RegistrationError{
			Identity: *owner,
			Input:    input,
			Err:      err,
		}
	}

	refreshed, err := c.authority.RefreshToken(ctx, owner, true)
	if err != nil {
		logger.Warnf(ctx, "User %s is registered but the token refresh failed: %v", owner.UID, err)

		return nil
	}

	c.setIdentity(refreshed)

	return nil
}

// setIdentity replaces the held identity and notifies subscribers.
func (c *Coordinator) setIdentity(identity *authority.Identity) {
	var held *authority.Identity

	if identity != nil {
		copied := *identity
		held = &copied
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = held

	value := valueOf(held)

	for _, changes := range c.subscribers {
		select {
		case changes <- value:
			continue
		default:
		}

		select {
		case <-changes:
		default:
		}

		changes <- value
	}
}

// valueOf dereferences identity, mapping nil to the zero Identity.
func valueOf(identity *authority.Identity) authority.Identity {
	if identity == nil {
		return authority.Identity{}
	}

	return *identity
}
