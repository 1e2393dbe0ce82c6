package jwtx

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret we accept, 256 bits to match
// the SHA-256 block output.
const MinSecretLength = 32

// HS256Signer implements the Signer interface using HMAC SHA-256.
type HS256Signer struct {
	key []byte
	alg string
}

func newHS256Signer(secret []byte) (*HS256Signer, error) {
	key, err := copySecret(secret)
	if err != nil {
		return nil, err
	}

	return &HS256Signer{
		key: key,
		alg: jwt.SigningMethodHS256.Alg(),
	}, nil
}

func (s *HS256Signer) Alg() string { return s.alg }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.key)
}

// copySecret checks the length and takes a private copy so callers can't
// mutate the key after construction.
func copySecret(secret []byte) ([]byte, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d",
			ErrWeakSecret, len(secret), MinSecretLength)
	}

	key := make([]byte, len(secret))
	copy(key, secret)
	return key, nil
}
