package http

import (
	"net/http"
	"time"

	"github.com/oshokin/jetlist-session/internal/utils"
)

// NewClient returns an HTTP client with the logging and header-injecting transports chained
// in front of http.DefaultTransport. A non-positive timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration, options ...HeaderInjectorOption) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Transport: NewHeaderInjector(
			NewLogTransport(http.DefaultTransport, 0),
			utils.NewSimpleUserAgentProvider(""),
			options...),
		Timeout: timeout,
	}
}
