package utils

//go:generate $MOCKGEN -source=user_agent_provider.go -destination=mocks/user_agent_provider_mock.go

import "github.com/oshokin/jetlist-session/internal/version"

// UserAgentProvider supplies the User-Agent header of outgoing requests.
type UserAgentProvider interface {
	// GetUserAgent returns the header value.
	GetUserAgent() string
}

// SimpleUserAgentProvider always returns the same User-Agent.
type SimpleUserAgentProvider struct {
	userAgent string
}

// NewSimpleUserAgentProvider returns a provider of userAgent.
// With an empty userAgent it reports this build, e.g. "jetlist-session/0.1.0".
func NewSimpleUserAgentProvider(userAgent string) UserAgentProvider {
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	return &SimpleUserAgentProvider{userAgent: userAgent}
}

// GetUserAgent returns the fixed User-Agent.
func (p *SimpleUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}
