package identity

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"net/http"
	"net/url"

	"github.com/oshokin/jetlist-session/internal/config"
	"github.com/oshokin/jetlist-session/internal/logger"
	http_transport "github.com/oshokin/jetlist-session/internal/transport/http"
	"github.com/oshokin/jetlist-session/internal/utils"
)

// Client defines the interface for interacting with the identity provider's REST APIs.
type Client interface {
	// SignUp creates an email/password account and signs it in.
	SignUp(ctx context.Context, email, password string) (*AuthResponse, error)
	// SignInWithPassword verifies an email/password pair.
	SignInWithPassword(ctx context.Context, email, password string) (*AuthResponse, error)
	// SendPasswordResetEmail asks the provider to email a password reset link.
	SendPasswordResetEmail(ctx context.Context, email string) error
	// LookupAccount returns the account the ID token belongs to.
	LookupAccount(ctx context.Context, idToken string) (*AccountInfo, error)
	// UpdateProfile sets the display name. An empty name removes it.
	UpdateProfile(ctx context.Context, idToken, displayName string) (*AuthResponse, error)
	// RefreshToken exchanges a refresh token for a fresh ID token.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error)
}

// ClientImpl implements the Client interface on top of net/http.
type ClientImpl struct {
	// apiKey is sent as the "key" query parameter of every request.
	apiKey string
	// identityToolkitURL is the base URL of the accounts:* methods.
	identityToolkitURL string
	// secureTokenURL is the base URL of the token exchange endpoint.
	secureTokenURL string
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
}

const (
	// signUpMethod creates an account.
	signUpMethod = "accounts:signUp"
	// signInWithPasswordMethod verifies a password.
	signInWithPasswordMethod = "accounts:signInWithPassword"
	// sendOobCodeMethod sends out-of-band emails such as password resets.
	sendOobCodeMethod = "accounts:sendOobCode"
	// lookupMethod returns account details for an ID token.
	lookupMethod = "accounts:lookup"
	// updateMethod changes account attributes.
	updateMethod = "accounts:update"
	// tokenMethod is the Secure Token exchange endpoint.
	tokenMethod = "token"

	// passwordResetRequestType is the requestType of a password reset email.
	passwordResetRequestType = "PASSWORD_RESET"
	// displayNameAttribute is the attribute name accounts:update uses to delete a display name.
	displayNameAttribute = "DISPLAY_NAME"
	// refreshTokenGrantType is the only grant type the Secure Token API accepts from clients.
	refreshTokenGrantType = "refresh_token"
)

// NewClient creates and returns a new instance of ClientImpl.
// The configuration must have passed config.ValidateConfig so that the endpoint URLs are set.
func NewClient(cfg *config.Config) Client {
	httpClient := http_transport.NewClient(
		cfg.ParsedRequestTimeout,
		http_transport.WithStaticHeader(http_transport.FirebaseAppIDHeader, cfg.AppID),
		http_transport.WithRequestID())

	return &ClientImpl{
		apiKey:             cfg.APIKey,
		identityToolkitURL: cfg.IdentityToolkitURL,
		secureTokenURL:     cfg.SecureTokenURL,
		httpClient:         httpClient,
	}
}

// SignUp creates an email/password account and signs it in.
func (c *ClientImpl) SignUp(ctx context.Context, email, password string) (*AuthResponse, error) {
	logger.Debugf(ctx, "Creating account for %s", utils.MaskEmail(email))

	return postJSON[AuthResponse](c, ctx, c.identityToolkitURL, signUpMethod, &passwordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
}

// SignInWithPassword verifies an email/password pair.
func (c *ClientImpl) SignInWithPassword(ctx context.Context, email, password string) (*AuthResponse, error) {
	logger.Debugf(ctx, "Signing in %s", utils.MaskEmail(email))

	return postJSON[AuthResponse](c, ctx, c.identityToolkitURL, signInWithPasswordMethod, &passwordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
}

// SendPasswordResetEmail asks the provider to email a password reset link.
func (c *ClientImpl) SendPasswordResetEmail(ctx context.Context, email string) error {
	logger.Debugf(ctx, "Requesting password reset for %s", utils.MaskEmail(email))

	_, err := postJSON[oobCodeResponse](c, ctx, c.identityToolkitURL, sendOobCodeMethod, &oobCodeRequest{
		RequestType: passwordResetRequestType,
		Email:       email,
	})

	return err
}

// LookupAccount returns the account the ID token belongs to.
func (c *ClientImpl) LookupAccount(ctx context.Context, idToken string) (*AccountInfo, error) {
	result, err := postJSON[lookupResponse](c, ctx, c.identityToolkitURL, lookupMethod, &lookupRequest{
		IDToken: idToken,
	})
	if err != nil {
		return nil, err
	}

	if len(result.Users) == 0 || result.Users[0] == nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Code:       "USER_NOT_FOUND",
		}
	}

	return result.Users[0], nil
}

// UpdateProfile sets the display name. An empty name removes it.
func (c *ClientImpl) UpdateProfile(ctx context.Context, idToken, displayName string) (*AuthResponse, error) {
	request := &updateRequest{
		IDToken:           idToken,
		DisplayName:       displayName,
		ReturnSecureToken: true,
	}

	if displayName == "" {
		request.DeleteAttribute = []string{displayNameAttribute}
	}

	return postJSON[AuthResponse](c, ctx, c.identityToolkitURL, updateMethod, request)
}

// RefreshToken exchanges a refresh token for a fresh ID token.
func (c *ClientImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", refreshTokenGrantType)
	form.Set("refresh_token", refreshToken)

	return postForm[TokenResponse](c, ctx, c.secureTokenURL, tokenMethod, form)
}
