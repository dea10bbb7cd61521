package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oshokin/jetlist-session/internal/version"
)

// TestSimpleUserAgentProvider tests the fixed and fallback User-Agent values.
func TestSimpleUserAgentProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userAgent string
		expected  string
	}{
		{
			name:      "explicit user agent",
			userAgent: "jetlist-web/2.3.1",
			expected:  "jetlist-web/2.3.1",
		},
		{
			name:      "browser-like user agent",
			userAgent: "Mozilla/5.0 (X11; Linux x86_64)",
			expected:  "Mozilla/5.0 (X11; Linux x86_64)",
		},
		{
			name:      "empty falls back to the build",
			userAgent: "",
			expected:  version.UserAgent(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := NewSimpleUserAgentProvider(tt.userAgent)

			assert.Implements(t, (*UserAgentProvider)(nil), provider)
			assert.Equal(t, tt.expected, provider.GetUserAgent())
			// The value is stable across calls.
			assert.Equal(t, provider.GetUserAgent(), provider.GetUserAgent())
		})
	}
}
