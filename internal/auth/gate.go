package auth

// Gate reports whether a usable credential exists for the remote backend.
// The router checks it before any tools/call and short-circuits with an
// authentication-required error carrying AuthorizationURL when it fails.
type Gate interface {
	IsAuthenticated() bool
	AuthorizationURL() string
}
