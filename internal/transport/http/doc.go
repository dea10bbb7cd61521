// Package http provides custom HTTP transport utilities,
// including request/response logging with secret redaction and User-Agent header injection.
// Both the identity provider client and the GraphQL client are built on top of these round trippers.
package http
