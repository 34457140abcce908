// Package auth tracks whether a usable Google credential exists and owns the
// OAuth2 authorization-code flow that produces one.
//
// The RPC router only consumes the Gate interface: a boolean plus the
// authorization URL surfaced to unauthenticated callers. Token exchange and
// refresh are delegated to golang.org/x/oauth2; a stale or revoked credential
// shows up as a backend call failure, not as an auth gate state change.
package auth
