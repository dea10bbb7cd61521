package registry

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"fmt"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/machinebox/graphql"

	"github.com/oshokin/jetlist-session/internal/config"
	"github.com/oshokin/jetlist-session/internal/logger"
	http_transport "github.com/oshokin/jetlist-session/internal/transport/http"
)

// Client defines the interface for registering users with the backend.
type Client interface {
	// CreateUser stores the user record, authenticated with the owner's ID token.
	CreateUser(ctx context.Context, idToken string, input UserInput) (*UserRecord, error)
}

// ClientImpl implements the Client interface over GraphQL.
type ClientImpl struct {
	// graphQLClient is the GraphQL client for running the mutation.
	graphQLClient *graphql.Client
	// usersCache holds the records this process has registered, keyed by user ID.
	usersCache *lru.Cache[string, registeredUser]
}

const (
	// createUserMutation registers a user. The default value mirrors the backend's schema.
	createUserMutation = `
		mutation createUser($data: UserInput = {id: "", firstName: "", lastName: "", email: ""}) {
			createUser(data: $data) {
				id
				firstName
				lastName
				email
			}
		}
	`

	// usersCacheSize bounds the number of registered records remembered by one process.
	usersCacheSize = 256
)

// NewClient creates and returns a new instance of ClientImpl.
func NewClient(cfg *config.Config) (Client, error) {
	httpClient := http_transport.NewClient(cfg.ParsedRequestTimeout, http_transport.WithRequestID())

	return newClient(cfg.GraphQLURL, httpClient)
}

func newClient(endpoint string, httpClient *http.Client) (*ClientImpl, error) {
	usersCache, err := lru.New[string, registeredUser](usersCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create users cache: %w", err)
	}

	return &ClientImpl{
		graphQLClient: graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		usersCache:    usersCache,
	}, nil
}

// CreateUser stores the user record, authenticated with the owner's ID token.
// A record this process has already registered with the same fields is returned without sending the mutation again.
func (c *ClientImpl) CreateUser(ctx context.Context, idToken string, input UserInput) (*UserRecord, error) {
	if input.ID == "" {
		return nil, ErrMissingUserID
	}

	if idToken == "" {
		return nil, ErrMissingIDToken
	}

	// Only an identical retry is served from the cache; changed fields are sent again.
	if cached, ok := c.usersCache.Get(input.ID); ok && cached.input == input {
		logger.Debugf(ctx, "User record cache hit for ID: %s", input.ID)

		return cached.record, nil
	}

	graphqlRequest := graphql.NewRequest(createUserMutation)
	graphqlRequest.Header.Set("Authorization", "Bearer "+idToken)
	graphqlRequest.Var("data", input)

	var response createUserResponse
	if err := c.graphQLClient.Run(ctx, graphqlRequest, &response); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateUserFailed, err)
	}

	if response.CreateUser == nil {
		return nil, ErrEmptyCreateUserResponse
	}

	c.usersCache.Add(input.ID, registeredUser{input: input, record: response.CreateUser})

	return response.CreateUser, nil
}
