// Package identity provides a Go client for the Firebase Identity Toolkit
// and Secure Token REST APIs.
// It covers email/password sign-up and sign-in, password reset emails,
// account lookup, profile updates and refresh token exchange.
// Provider failures are decoded into *APIError values that match
// the package's sentinel errors through errors.Is.
package identity
