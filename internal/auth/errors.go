// Package auth implements credential verification, brute-force lockout and
// the access/refresh token session lifecycle.
package auth

import "errors"

// Expected, non-exceptional outcomes of the auth flows. Handlers translate
// these to HTTP status codes; they are never logged as faults.
var (
	ErrValidation         = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrMissingToken       = errors.New("missing refresh token")
	ErrInvalidToken       = errors.New("invalid token")
)
