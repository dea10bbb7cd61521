package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oshokin/jetlist-session/internal/logger"
)

// TestLogTransport_NilRequest tests that a nil request is rejected.
func TestLogTransport_NilRequest(t *testing.T) {
	t.Parallel()

	transport := NewLogTransport(http.DefaultTransport, 0)

	resp, err := transport.RoundTrip(nil) //nolint:bodyclose // Response is nil on error.
	require.ErrorIs(t, err, ErrNilRequest)
	assert.Nil(t, resp)
}

// TestLogTransport_RedactsSecrets tests that debug dumps never contain credentials.
//
//nolint:paralleltest // Replaces the global logger and level.
func TestLogTransport_RedactsSecrets(t *testing.T) {
	originalLogger := logger.Logger()
	originalLevel := logger.Level()

	defer func() {
		logger.SetLogger(originalLogger)
		logger.SetLevel(originalLevel)
	}()

	core, logs := observer.New(zapcore.DebugLevel)
	logger.SetLogger(zap.New(core).Sugar())
	logger.SetLevel(zapcore.DebugLevel)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(body), "secret123")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"localId":"uid-1","idToken":"eyJ.token","refreshToken":"AMf-refresh"}`))
	}))
	defer server.Close()

	transport := NewLogTransport(http.DefaultTransport, 0)

	req, err := http.NewRequestWithContext(
		context.Background(),
		http.MethodPost,
		server.URL+"/v1/accounts:signUp?key=AIzaSecret",
		strings.NewReader(`{"email":"new@x.com","password":"secret123"}`),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	// The body must still be readable by the caller after dumping.
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "uid-1")

	entries := logs.All()
	require.Len(t, entries, 1)

	message := entries[0].Message
	assert.Contains(t, message, "[200]")
	assert.Contains(t, message, `"localId":"uid-1"`)

	for _, secret := range []string{"secret123", "AIzaSecret", "eyJ.token", "AMf-refresh"} {
		assert.NotContains(t, message, secret)
	}
}

// TestLogTransport_Truncate tests the truncation of long dumps.
func TestLogTransport_Truncate(t *testing.T) {
	t.Parallel()

	transport := &LogTransport{maxLogLength: 5}

	assert.Equal(t, "abc", transport.truncate("abc"))
	assert.Equal(t, "abcde... [truncated]", transport.truncate("abcdefgh"))
}
