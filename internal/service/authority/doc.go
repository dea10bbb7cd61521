// Package authority models the authentication authority a session depends on.
//
// Authority is the capability set: credential creation and verification,
// password reset emails, session invalidation, token refresh, profile updates
// and a stream of identity changes. FirebaseAuthority implements it on top of
// the Firebase REST APIs and keeps the refresh token in a Persistence so that
// a later process can restore the session.
package authority
