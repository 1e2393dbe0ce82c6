package jwtx

import (
	"errors"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrExpired    = errors.New("jwtx: token expired")

	// ErrWeakSecret is returned at construction when the HMAC secret is too
	// short. Callers should treat it as fatal configuration.
	ErrWeakSecret = errors.New("jwtx: secret too short")
)
