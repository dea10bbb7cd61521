package app

import (
	"context"
	"errors"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/jetlist-session/internal/config"
	"github.com/oshokin/jetlist-session/internal/logger"
	"github.com/oshokin/jetlist-session/internal/service/authority"
	"github.com/oshokin/jetlist-session/internal/service/session"
	"github.com/oshokin/jetlist-session/internal/utils"
)

// SignupParams holds the arguments of the signup command.
type SignupParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ExecuteRestoreCommand restores the persisted session and reports who is signed in.
func ExecuteRestoreCommand(ctx context.Context, cfg *config.Config) {
	ctx = withCorrelationID(ctx, "restore")
	coordinator := mustCoordinator(ctx, cfg)

	if !restoreOrFail(ctx, coordinator) {
		logger.Info(ctx, "No session to restore")

		return
	}

	current, _ := coordinator.CurrentIdentity()
	logger.InfoKV(ctx, "Session restored", identityFields(current, time.Now())...)
}

// ExecuteWatchCommand follows identity changes until the context is canceled.
func ExecuteWatchCommand(ctx context.Context, cfg *config.Config) {
	ctx = withCorrelationID(ctx, "watch")
	coordinator := mustCoordinator(ctx, cfg)

	changes := coordinator.Subscribe(ctx)

	go func() {
		for change := range changes {
			if change.IsZero() {
				logger.Info(ctx, "Signed out")

				continue
			}

			logger.InfoKV(ctx, "Signed in", identityFields(change, time.Now())...)
		}
	}()

	if err := coordinator.Watch(ctx); err != nil {
		logger.Fatalf(ctx, "Failed to watch identity changes: %v", err)
	}
}

// ExecuteSignupCommand creates an account and registers it with the backend.
func ExecuteSignupCommand(ctx context.Context, cfg *config.Config, params SignupParams) {
	ctx = withCorrelationID(ctx, "signup")
	coordinator := mustCoordinator(ctx, cfg)

	if err := runSignup(ctx, coordinator, params); err != nil {
		logger.Fatalf(ctx, "Failed to create account: %v", err)
	}

	current, _ := coordinator.CurrentIdentity()
	logger.InfoKV(ctx, "Account created", identityFields(current, time.Now())...)
}

// runSignup creates the account. A failed registration is retried once.
func runSignup(ctx context.Context, coordinator *session.Coordinator, params SignupParams) error {
	params.Email = utils.NormalizeEmail(params.Email)

	_, err := coordinator.CreateAccount(ctx, params.FirstName, params.LastName, params.Email, params.Password)

	var registrationErr *session.RegistrationError
	if errors.As(err, &registrationErr) {
		logger.Warnf(ctx, "Registration failed, retrying: %v", registrationErr.Err)

		err = coordinator.RetryRegistration(ctx, registrationErr.Input)
	}

	return err
}

// ExecuteLoginCommand signs in with an email and password.
func ExecuteLoginCommand(ctx context.Context, cfg *config.Config, email, password string) {
	ctx = withCorrelationID(ctx, "login")
	coordinator := mustCoordinator(ctx, cfg)

	email = utils.NormalizeEmail(email)

	if _, err := coordinator.Login(ctx, email, password); err != nil {
		logger.Fatalf(ctx, "Failed to sign in as %s: %v", utils.MaskEmail(email), err)
	}

	if cfg.Persistence == config.PersistenceNone {
		logger.Warn(ctx, "Persistence is disabled, the session ends with this process")
	}
}

// ExecuteLogoutCommand ends the persisted session.
func ExecuteLogoutCommand(ctx context.Context, cfg *config.Config) {
	ctx = withCorrelationID(ctx, "logout")

	if err := runLogout(ctx, mustCoordinator(ctx, cfg)); err != nil {
		logger.Fatalf(ctx, "Failed to sign out: %v", err)
	}
}

// runLogout signs out. Signing out is local, so a session that cannot be restored
// (for example while offline) is still forgotten.
func runLogout(ctx context.Context, coordinator *session.Coordinator) error {
	restored, err := coordinator.RestoreSession(ctx)

	switch {
	case err != nil:
		logger.Warnf(ctx, "Failed to restore session, signing out anyway: %v", err)
	case !restored:
		logger.Info(ctx, "Not signed in")

		return nil
	}

	if err = coordinator.Logout(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "Signed out")

	return nil
}

// ExecuteResetPasswordCommand sends a password reset email.
func ExecuteResetPasswordCommand(ctx context.Context, cfg *config.Config, email string) {
	ctx = withCorrelationID(ctx, "reset-password")
	coordinator := mustCoordinator(ctx, cfg)

	email = utils.NormalizeEmail(email)

	if _, err := coordinator.ResetPassword(ctx, email); err != nil {
		logger.Fatalf(ctx, "Failed to send password reset email: %v", err)
	}

	logger.Infof(ctx, "Password reset email sent to %s", utils.MaskEmail(email))
}

// ExecuteWhoamiCommand prints the restored identity.
func ExecuteWhoamiCommand(ctx context.Context, cfg *config.Config) {
	ctx = withCorrelationID(ctx, "whoami")
	coordinator := mustCoordinator(ctx, cfg)

	if !restoreOrFail(ctx, coordinator) {
		logger.Info(ctx, "Not signed in")

		return
	}

	current, _ := coordinator.CurrentIdentity()
	logger.InfoKV(ctx, "Signed in", identityFields(current, time.Now())...)
}

// ExecuteDisplayNameCommand sets the display name of the restored identity.
// An empty name removes it.
func ExecuteDisplayNameCommand(ctx context.Context, cfg *config.Config, displayName string) {
	ctx = withCorrelationID(ctx, "display-name")
	coordinator := mustCoordinator(ctx, cfg)

	if !restoreOrFail(ctx, coordinator) {
		logger.Fatalf(ctx, "Failed to update display name: %v", session.ErrNotSignedIn)
	}

	if err := coordinator.UpdateDisplayName(ctx, displayName); err != nil {
		logger.Fatalf(ctx, "Failed to update display name: %v", err)
	}

	current, _ := coordinator.CurrentIdentity()
	logger.Infof(ctx, "Display name is now %q", current.DisplayName)
}

// identityFields describes identity as logger key-value pairs.
func identityFields(identity authority.Identity, now time.Time) []any {
	fields := []any{
		"uid", identity.UID,
		"email", utils.MaskEmail(identity.Email),
		"email_verified", identity.EmailVerified,
	}

	if identity.DisplayName != "" {
		fields = append(fields, "display_name", identity.DisplayName)
	}

	if identity.ExpiresAt.IsZero() {
		fields = append(fields, "token_expires", "unknown")
	} else {
		fields = append(fields, "token_expires", humanize.RelTime(identity.ExpiresAt, now, "ago", "from now"))
	}

	// Claims are for display only.
	claims, err := identity.Claims()
	if err != nil {
		return fields
	}

	if issuer, issuerErr := claims.GetIssuer(); issuerErr == nil && issuer != "" {
		fields = append(fields, "issuer", issuer)
	}

	if authTime, ok := claims["auth_time"].(float64); ok {
		fields = append(fields, "signed_in", humanize.RelTime(time.Unix(int64(authTime), 0), now, "ago", "from now"))
	}

	return fields
}
