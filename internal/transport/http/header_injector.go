package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/oshokin/jetlist-session/internal/utils"
)

const (
	// userAgentHeader is the HTTP header name for User-Agent.
	userAgentHeader = "User-Agent"

	// RequestIDHeader is the header carrying a per-request correlation identifier.
	RequestIDHeader = "X-Request-ID"

	// FirebaseAppIDHeader carries the Firebase app ID, the same way the web SDK does.
	FirebaseAppIDHeader = "X-Firebase-Gmpid"
)

// HeaderInjector is a custom http.RoundTripper that fills in missing request headers.
// It always ensures a User-Agent, adds the configured static headers,
// and optionally stamps every request with a fresh request ID.
type HeaderInjector struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// userAgentProvider provides the User-Agent string to inject.
	userAgentProvider utils.UserAgentProvider
	// staticHeaders are added to every request that does not set them already.
	staticHeaders http.Header
	// withRequestID enables the X-Request-ID header.
	withRequestID bool
}

// HeaderInjectorOption configures a HeaderInjector.
type HeaderInjectorOption func(*HeaderInjector)

// WithStaticHeader adds a header that is set on every request unless already present.
// Empty values are ignored.
func WithStaticHeader(name, value string) HeaderInjectorOption {
	return func(h *HeaderInjector) {
		if value == "" {
			return
		}

		h.staticHeaders.Set(name, value)
	}
}

// WithRequestID stamps every request with a random X-Request-ID unless the caller set one.
func WithRequestID() HeaderInjectorOption {
	return func(h *HeaderInjector) {
		h.withRequestID = true
	}
}

// NewHeaderInjector creates and returns a new instance of HeaderInjector.
func NewHeaderInjector(
	next http.RoundTripper,
	userAgentProvider utils.UserAgentProvider,
	options ...HeaderInjectorOption,
) http.RoundTripper {
	injector := &HeaderInjector{
		next:              next,
		userAgentProvider: userAgentProvider,
		staticHeaders:     make(http.Header),
	}

	for _, option := range options {
		option(injector)
	}

	return injector
}

// RoundTrip executes a single HTTP transaction after injecting the missing headers.
// It implements the http.RoundTripper interface.
// The incoming request is cloned so the caller's headers are never mutated.
func (t *HeaderInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if req.Header.Get(userAgentHeader) == "" {
		req.Header.Set(userAgentHeader, t.userAgentProvider.GetUserAgent())
	}

	for name, values := range t.staticHeaders {
		if req.Header.Get(name) == "" {
			req.Header[name] = values
		}
	}

	if t.withRequestID && req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	return t.next.RoundTrip(req)
}
