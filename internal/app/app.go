package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/oshokin/jetlist-session/internal/client/identity"
	"github.com/oshokin/jetlist-session/internal/client/registry"
	"github.com/oshokin/jetlist-session/internal/config"
	"github.com/oshokin/jetlist-session/internal/logger"
	"github.com/oshokin/jetlist-session/internal/service/authority"
	"github.com/oshokin/jetlist-session/internal/service/session"
)

// newCoordinator builds the session coordinator and its dependencies from cfg.
func newCoordinator(cfg *config.Config, persistence authority.Persistence) (*session.Coordinator, error) {
	registryClient, err := registry.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize registry client: %w", err)
	}

	auth := authority.NewFirebaseAuthority(identity.NewClient(cfg), persistence)

	return session.NewCoordinator(auth, registryClient), nil
}

// mustCoordinator builds the coordinator with the persistence selected by cfg, stopping the program on failure.
func mustCoordinator(ctx context.Context, cfg *config.Config) *session.Coordinator {
	coordinator, err := newCoordinator(cfg, authority.NewPersistence(cfg))
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize session: %v", err)
	}

	return coordinator
}

// withCorrelationID tags every log line of one command run.
func withCorrelationID(ctx context.Context, command string) context.Context {
	return logger.WithKV(logger.WithName(ctx, command), "correlation_id", uuid.NewString())
}

// restoreOrFail restores the persisted session and stops the program on failure.
func restoreOrFail(ctx context.Context, coordinator *session.Coordinator) bool {
	restored, err := coordinator.RestoreSession(ctx)
	if err != nil {
		logger.Fatalf(ctx, "Failed to restore session: %v", err)
	}

	return restored
}
