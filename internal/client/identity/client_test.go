package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/jetlist-session/internal/config"
)

const testAPIKey = "test-api-key"

// newTestClient starts a fake provider serving handler and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&config.Config{
		APIKey:               testAPIKey,
		AppID:                "1:123:web:abc",
		IdentityToolkitURL:   server.URL + "/identitytoolkit.googleapis.com/v1",
		SecureTokenURL:       server.URL + "/securetoken.googleapis.com/v1",
		ParsedRequestTimeout: 5 * time.Second,
	})
}

// writeJSON encodes body as the response.
func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

// writeProviderError writes the provider's error envelope.
func writeProviderError(t *testing.T, w http.ResponseWriter, message string) {
	t.Helper()

	writeJSON(t, w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":    http.StatusBadRequest,
			"message": message,
			"errors":  []any{map[string]any{"message": message, "domain": "global", "reason": "invalid"}},
		},
	})
}

// TestClient_SignUp tests account creation.
func TestClient_SignUp(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/identitytoolkit.googleapis.com/v1/accounts:signUp", r.URL.Path)
		assert.Equal(t, testAPIKey, r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "1:123:web:abc", r.Header.Get("X-Firebase-Gmpid"))

		var request passwordRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "new@x.com", request.Email)
		assert.Equal(t, "secret123", request.Password)
		assert.True(t, request.ReturnSecureToken)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"kind":         "identitytoolkit#SignupNewUserResponse",
			"idToken":      "id-token",
			"email":        "new@x.com",
			"refreshToken": "refresh-token",
			"expiresIn":    "3600",
			"localId":      "uid-1",
		})
	})

	result, err := client.SignUp(context.Background(), "new@x.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, "uid-1", result.LocalID)
	assert.Equal(t, "new@x.com", result.Email)
	assert.Equal(t, "id-token", result.IDToken)
	assert.Equal(t, "refresh-token", result.RefreshToken)
	assert.Equal(t, time.Hour, result.ExpiresInDuration())
}

// TestClient_SignUp_EmailExists tests that provider errors decode into APIError.
func TestClient_SignUp_EmailExists(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeProviderError(t, w, "EMAIL_EXISTS")
	})

	result, err := client.SignUp(context.Background(), "taken@x.com", "secret123")
	require.Error(t, err)
	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrEmailExists)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", apiErr.Code)
	assert.Empty(t, apiErr.Message)
}

// TestClient_SignInWithPassword tests password verification and its failure codes.
func TestClient_SignInWithPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		providerError string
		expectedErr   error
	}{
		{name: "success"},
		{name: "unknown email", providerError: "EMAIL_NOT_FOUND", expectedErr: ErrEmailNotFound},
		{name: "wrong password", providerError: "INVALID_PASSWORD", expectedErr: ErrInvalidPassword},
		{name: "protected project", providerError: "INVALID_LOGIN_CREDENTIALS", expectedErr: ErrInvalidCredentials},
		{name: "disabled", providerError: "USER_DISABLED : The user account has been disabled.", expectedErr: ErrUserDisabled},
		{
			name:          "throttled",
			providerError: "TOO_MANY_ATTEMPTS_TRY_LATER : Access to this account has been temporarily disabled.",
			expectedErr:   ErrTooManyAttempts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/identitytoolkit.googleapis.com/v1/accounts:signInWithPassword", r.URL.Path)

				if tt.providerError != "" {
					writeProviderError(t, w, tt.providerError)

					return
				}

				writeJSON(t, w, http.StatusOK, map[string]any{
					"localId":      "uid-1",
					"email":        "user@x.com",
					"displayName":  "Ana Lee",
					"idToken":      "id-token",
					"registered":   true,
					"refreshToken": "refresh-token",
					"expiresIn":    "3600",
				})
			})

			result, err := client.SignInWithPassword(context.Background(), "user@x.com", "secret123")
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, result)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "uid-1", result.LocalID)
			assert.Equal(t, "Ana Lee", result.DisplayName)
			assert.True(t, result.Registered)
		})
	}
}

// TestClient_SendPasswordResetEmail tests the out-of-band email request.
func TestClient_SendPasswordResetEmail(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/identitytoolkit.googleapis.com/v1/accounts:sendOobCode", r.URL.Path)

		var request oobCodeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "PASSWORD_RESET", request.RequestType)

		if request.Email == "missing@x.com" {
			writeProviderError(t, w, "EMAIL_NOT_FOUND")

			return
		}

		writeJSON(t, w, http.StatusOK, map[string]any{"email": request.Email})
	})

	require.NoError(t, client.SendPasswordResetEmail(context.Background(), "user@x.com"))
	require.ErrorIs(t, client.SendPasswordResetEmail(context.Background(), "missing@x.com"), ErrEmailNotFound)
}

// TestClient_LookupAccount tests account lookup.
func TestClient_LookupAccount(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/identitytoolkit.googleapis.com/v1/accounts:lookup", r.URL.Path)

		var request lookupRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		switch request.IDToken {
		case "valid":
			writeJSON(t, w, http.StatusOK, map[string]any{
				"users": []any{map[string]any{
					"localId":       "uid-1",
					"email":         "user@x.com",
					"emailVerified": true,
					"displayName":   "Ana Lee",
				}},
			})
		case "orphan":
			writeJSON(t, w, http.StatusOK, map[string]any{"kind": "identitytoolkit#GetAccountInfoResponse"})
		default:
			writeProviderError(t, w, "INVALID_ID_TOKEN")
		}
	})

	account, err := client.LookupAccount(context.Background(), "valid")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", account.LocalID)
	assert.True(t, account.EmailVerified)
	assert.Equal(t, "Ana Lee", account.DisplayName)

	_, err = client.LookupAccount(context.Background(), "orphan")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = client.LookupAccount(context.Background(), "garbage")
	require.ErrorIs(t, err, ErrInvalidIDToken)
}

// TestClient_UpdateProfile tests setting and clearing the display name.
func TestClient_UpdateProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		displayName     string
		expectedDeleted []string
	}{
		{name: "set name", displayName: "Ana Lee"},
		{name: "clear name", displayName: "", expectedDeleted: []string{"DISPLAY_NAME"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/identitytoolkit.googleapis.com/v1/accounts:update", r.URL.Path)

				var request updateRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
				assert.Equal(t, "id-token", request.IDToken)
				assert.Equal(t, tt.displayName, request.DisplayName)
				assert.Equal(t, tt.expectedDeleted, request.DeleteAttribute)

				writeJSON(t, w, http.StatusOK, map[string]any{
					"localId":      "uid-1",
					"email":        "user@x.com",
					"displayName":  request.DisplayName,
					"idToken":      "id-token-2",
					"refreshToken": "refresh-token-2",
					"expiresIn":    "3600",
				})
			})

			result, err := client.UpdateProfile(context.Background(), "id-token", tt.displayName)
			require.NoError(t, err)
			assert.Equal(t, tt.displayName, result.DisplayName)
			assert.Equal(t, "id-token-2", result.IDToken)
		})
	}
}

// TestClient_RefreshToken tests the Secure Token exchange.
func TestClient_RefreshToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/securetoken.googleapis.com/v1/token", r.URL.Path)
		assert.Equal(t, testAPIKey, r.URL.Query().Get("key"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))

		if r.PostForm.Get("refresh_token") == "revoked" {
			writeProviderError(t, w, "INVALID_REFRESH_TOKEN")

			return
		}

		writeJSON(t, w, http.StatusOK, map[string]any{
			"expires_in":    "3600",
			"token_type":    "Bearer",
			"refresh_token": "refresh-token-2",
			"id_token":      "id-token-2",
			"user_id":       "uid-1",
			"project_id":    "123456",
		})
	})

	result, err := client.RefreshToken(context.Background(), "refresh-token")
	require.NoError(t, err)
	assert.Equal(t, "id-token-2", result.IDToken)
	assert.Equal(t, "refresh-token-2", result.RefreshToken)
	assert.Equal(t, "uid-1", result.UserID)
	assert.Equal(t, time.Hour, result.ExpiresInDuration())

	_, err = client.RefreshToken(context.Background(), "revoked")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
	assert.True(t, IsRejectedCredential(err))
}

// TestClient_UnexpectedStatus tests failures without a provider error envelope.
func TestClient_UnexpectedStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := client.SignInWithPassword(context.Background(), "user@x.com", "secret123")
	require.ErrorIs(t, err, ErrUnexpectedHTTPStatus)
	assert.Contains(t, err.Error(), "502")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

// TestClient_ContextCanceled tests that a canceled context aborts the request.
func TestClient_ContextCanceled(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SignUp(ctx, "user@x.com", "secret123")
	require.ErrorIs(t, err, context.Canceled)
}

// TestAPIError tests code parsing and sentinel matching.
func TestAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		message         string
		expectedCode    string
		expectedMessage string
		sentinel        error
		rejected        bool
	}{
		{
			name:            "code with detail",
			message:         "WEAK_PASSWORD : Password should be at least 6 characters",
			expectedCode:    "WEAK_PASSWORD",
			expectedMessage: "Password should be at least 6 characters",
			sentinel:        ErrWeakPassword,
		},
		{
			name:         "bare code",
			message:      "TOKEN_EXPIRED",
			expectedCode: "TOKEN_EXPIRED",
			sentinel:     ErrTokenExpired,
			rejected:     true,
		},
		{
			name:         "user not found",
			message:      "USER_NOT_FOUND",
			expectedCode: "USER_NOT_FOUND",
			sentinel:     ErrUserNotFound,
			rejected:     true,
		},
		{
			name:         "invalid email",
			message:      "INVALID_EMAIL",
			expectedCode: "INVALID_EMAIL",
			sentinel:     ErrInvalidEmail,
		},
		{
			name:         "unknown code",
			message:      "OPERATION_NOT_ALLOWED",
			expectedCode: "OPERATION_NOT_ALLOWED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := newAPIError(http.StatusBadRequest, tt.message)
			assert.Equal(t, tt.expectedCode, err.Code)
			assert.Equal(t, tt.expectedMessage, err.Message)
			assert.Contains(t, err.Error(), tt.expectedCode)
			assert.Equal(t, tt.rejected, IsRejectedCredential(err))

			if tt.sentinel != nil {
				require.ErrorIs(t, err, tt.sentinel)
			}

			assert.NotErrorIs(t, err, ErrEmailExists)
		})
	}
}
