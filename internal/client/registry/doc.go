// Package registry provides the GraphQL client for the backend that stores
// user records. Its single operation registers a freshly created account
// through the createUser mutation, authenticated with the account's ID token.
// Registered records are cached by user ID, so repeating a registration
// within the same process does not send a second mutation.
package registry
