package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/jetlist-session/internal/config"
	"github.com/oshokin/jetlist-session/internal/service/authority"
	"github.com/oshokin/jetlist-session/internal/service/session"
)

// fakeBackend serves the Firebase endpoints and the GraphQL backend used by one test.
type fakeBackend struct {
	// registrationFailures is the number of createUser mutations to reject before accepting one.
	registrationFailures int32
	// tokenUnavailable makes the Secure Token endpoint answer 503.
	tokenUnavailable bool

	signUpEmails  chan string
	graphQLCalls  atomic.Int32
	tokenRequests atomic.Int32
}

// writeTestJSON encodes body as the response.
func writeTestJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/identitytoolkit.googleapis.com/v1/accounts:signUp":
		var request struct {
			Email string `json:"email"`
		}

		_ = json.NewDecoder(r.Body).Decode(&request)
		b.signUpEmails <- request.Email

		writeTestJSON(w, map[string]any{
			"localId":      "uid-1",
			"email":        request.Email,
			"idToken":      "id-token",
			"refreshToken": "refresh-1",
			"expiresIn":    "3600",
		})
	case "/identitytoolkit.googleapis.com/v1/accounts:lookup":
		writeTestJSON(w, map[string]any{
			"users": []any{map[string]any{"localId": "uid-1", "email": "new@x.com"}},
		})
	case "/securetoken.googleapis.com/v1/token":
		b.tokenRequests.Add(1)

		if b.tokenUnavailable {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)

			return
		}

		writeTestJSON(w, map[string]any{
			"id_token":      "id-token",
			"refresh_token": "refresh-2",
			"expires_in":    "3600",
			"user_id":       "uid-1",
		})
	case "/graphql":
		var request struct {
			Variables map[string]any `json:"variables"`
		}

		_ = json.NewDecoder(r.Body).Decode(&request)

		if b.graphQLCalls.Add(1) <= b.registrationFailures {
			writeTestJSON(w, map[string]any{
				"data":   nil,
				"errors": []any{map[string]any{"message": "backend unavailable"}},
			})

			return
		}

		writeTestJSON(w, map[string]any{
			"data": map[string]any{"createUser": request.Variables["data"]},
		})
	default:
		http.NotFound(w, r)
	}
}

// newTestCoordinator starts backend and returns a coordinator wired to it.
func newTestCoordinator(t *testing.T, backend *fakeBackend, persistence authority.Persistence) *session.Coordinator {
	t.Helper()

	backend.signUpEmails = make(chan string, 1)

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	coordinator, err := newCoordinator(&config.Config{
		APIKey:               "test-api-key",
		AppID:                "1:123:web:abc",
		GraphQLURL:           server.URL + "/graphql",
		IdentityToolkitURL:   server.URL + "/identitytoolkit.googleapis.com/v1",
		SecureTokenURL:       server.URL + "/securetoken.googleapis.com/v1",
		Persistence:          config.PersistenceNone,
		ParsedRequestTimeout: 5 * time.Second,
	}, persistence)
	require.NoError(t, err)

	return coordinator
}

// TestRunSignup tests that a failed registration is retried exactly once.
func TestRunSignup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                 string
		registrationFailures int32
		expectedErr          error
		expectedCalls        int32
	}{
		{
			name:          "registered first time",
			expectedCalls: 1,
		},
		{
			name:                 "registered on retry",
			registrationFailures: 1,
			expectedCalls:        2,
		},
		{
			name:                 "retry fails too",
			registrationFailures: 2,
			expectedErr:          session.ErrRegistrationIncomplete,
			expectedCalls:        2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := &fakeBackend{registrationFailures: tt.registrationFailures}
			coordinator := newTestCoordinator(t, backend, authority.NewMemoryPersistence())

			err := runSignup(t.Context(), coordinator, SignupParams{
				FirstName: "Ana",
				LastName:  "Lee",
				Email:     "  New@X.com ",
				Password:  "secret123",
			})

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, "new@x.com", <-backend.signUpEmails)
			assert.Equal(t, tt.expectedCalls, backend.graphQLCalls.Load())

			// The credential exists either way, so the account stays signed in.
			current, ok := coordinator.CurrentIdentity()
			require.True(t, ok)
			assert.Equal(t, "uid-1", current.UID)
		})
	}
}

// TestRunLogout tests signing out with and without a restorable session.
func TestRunLogout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                  string
		storedToken           string
		tokenUnavailable      bool
		expectedTokenRequests int32
	}{
		{
			name:                  "restored session",
			storedToken:           "refresh-1",
			expectedTokenRequests: 1,
		},
		{
			name:                  "provider unreachable",
			storedToken:           "refresh-1",
			tokenUnavailable:      true,
			expectedTokenRequests: 1,
		},
		{
			name: "no session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			persistence := authority.NewMemoryPersistence()
			require.NoError(t, persistence.Save(tt.storedToken))

			backend := &fakeBackend{tokenUnavailable: tt.tokenUnavailable}
			coordinator := newTestCoordinator(t, backend, persistence)

			require.NoError(t, runLogout(t.Context(), coordinator))

			stored, err := persistence.Load()
			require.NoError(t, err)
			assert.Empty(t, stored)

			assert.Equal(t, tt.expectedTokenRequests, backend.tokenRequests.Load())
		})
	}
}
