// Package session keeps the local view of who is signed in consistent with
// the authentication authority.
//
// A Coordinator is constructed once with the authority and the registration
// client and passed to whatever needs it. Every change to its identity is
// confirmed by the authority first, except during account creation, where the
// new identity is held before the backend has registered the user.
package session
