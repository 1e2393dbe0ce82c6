package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HS256Verifier validates JWTs signed using HS256.
type HS256Verifier struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// NewVerifierHS256 creates a verifier for the given shared secret. A nil now
// defaults to time.Now.
func NewVerifierHS256(secret []byte, issuer string, now func() time.Time) (*HS256Verifier, error) {
	key, err := copySecret(secret)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &HS256Verifier{key: key, issuer: issuer, now: now}, nil
}

// Verify validates the JWT string and returns its parsed Claims. The HMAC
// comparison inside golang-jwt is constant time (hmac.Equal).
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrMalformed)
	}

	return *claims, nil
}

// mapParseError folds golang-jwt's error tree into our three outcomes.
// Expired is only reported for tokens whose signature checked out, since
// the library validates claims after the signature.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
