// Package session holds the authenticated user's bearer token and profile.
//
// A Manager persists the token through a TokenStore, restores it once at
// startup, and keeps a credential provider in sync so that every
// authenticated API call carries the current token without callers
// attaching it themselves.
//
// Mutating operations (Restore, Login, Register, Refresh, Logout) follow a
// cancel-and-replace discipline: starting one cancels the call still in
// flight, and a call that finishes after being replaced discards its result
// and returns ErrSuperseded. A slow Login therefore never resurrects a
// session that was logged out in the meantime.
package session
