package auth

import "errors"

// Registration / login failures. ErrInvalidCredentials deliberately
// covers both "unknown subject" and "wrong password" so callers cannot
// probe which accounts exist.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateSubject   = errors.New("subject already registered")
	ErrWeakPassword       = errors.New("password below minimum length")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrUnknownRole        = errors.New("unknown role")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// Identity resolution failures.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrIdentityNotFound = errors.New("identity not found")
)

// Token decode failures. The request middleware never surfaces these
// to clients; it degrades to "no principal" and lets the policy layer
// reject. They are still distinct values so tests and callers can tell
// the outcomes apart.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
)
