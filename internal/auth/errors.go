// Package auth issues and verifies the signed session credential that
// authenticates every request. Credentials are stateless HS256 JWTs with a
// fixed validity window; there is no server-side revocation, so the verifier
// re-reads the authoritative user row on every call to pick up role changes
// immediately.
package auth

import "errors"

// Verification failure kinds. All of them collapse to 401 at the HTTP
// boundary but stay distinguishable for logging and tests.
var (
	// ErrNoCredential means no credential was presented at all.
	ErrNoCredential = errors.New("no credential")
	// ErrInvalidCredential means the signature did not match or the
	// payload was malformed.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrExpiredCredential means the credential's validity window passed.
	ErrExpiredCredential = errors.New("expired credential")
	// ErrUnknownPrincipal means the embedded user no longer exists.
	ErrUnknownPrincipal = errors.New("unknown principal")
)
