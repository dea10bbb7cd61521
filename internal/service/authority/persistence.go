package authority

import (
	"fmt"
	"sync"

	"github.com/oshokin/jetlist-session/internal/config"
)

// Persistence stores the refresh token between runs.
type Persistence interface {
	// Load returns the stored refresh token, or an empty string if there is none.
	Load() (string, error)
	// Save stores the refresh token.
	Save(refreshToken string) error
	// Clear removes the stored refresh token.
	Clear() error
}

// MemoryPersistence keeps the refresh token for the lifetime of the process only.
type MemoryPersistence struct {
	mu           sync.Mutex
	refreshToken string
}

// NewMemoryPersistence creates an empty in-memory persistence.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

// Load returns the stored refresh token.
func (p *MemoryPersistence) Load() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.refreshToken, nil
}

// Save stores the refresh token.
func (p *MemoryPersistence) Save(refreshToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.refreshToken = refreshToken

	return nil
}

// Clear removes the stored refresh token.
func (p *MemoryPersistence) Clear() error {
	return p.Save("")
}

// ConfigPersistence keeps the refresh token in the configuration file.
type ConfigPersistence struct {
	mu  sync.Mutex
	cfg *config.Config
}

// NewConfigPersistence creates a persistence backed by the refresh_token key of cfg's file.
func NewConfigPersistence(cfg *config.Config) *ConfigPersistence {
	return &ConfigPersistence{cfg: cfg}
}

// Load returns the refresh token read from the configuration.
func (p *ConfigPersistence) Load() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cfg.RefreshToken, nil
}

// Save writes the refresh token to the configuration file.
func (p *ConfigPersistence) Save(refreshToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cfg.RefreshToken == refreshToken {
		return nil
	}

	previous := p.cfg.RefreshToken
	p.cfg.RefreshToken = refreshToken

	if err := config.SaveSession(p.cfg); err != nil {
		p.cfg.RefreshToken = previous

		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Clear removes the refresh token from the configuration file.
func (p *ConfigPersistence) Clear() error {
	return p.Save("")
}

// NewPersistence returns the persistence selected by cfg.Persistence.
func NewPersistence(cfg *config.Config) Persistence {
	if cfg.Persistence == config.PersistenceNone {
		return NewMemoryPersistence()
	}

	return NewConfigPersistence(cfg)
}
