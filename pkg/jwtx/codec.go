package jwtx

import (
	"fmt"
	"time"
)

// Token is an issued session token and the instant it stops being valid.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Codec issues and verifies HS256 session tokens under one immutable secret.
// It is safe for concurrent use.
type Codec struct {
	signer   Signer
	verifier *HS256Verifier
	issuer   string
	ttl      time.Duration
	now      func() time.Time
}

// CodecOption tweaks a Codec at construction.
type CodecOption func(*Codec)

// WithIssuer stamps and enforces the iss claim.
func WithIssuer(issuer string) CodecOption {
	return func(c *Codec) { c.issuer = issuer }
}

// WithTTL overrides DefaultSessionTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock swaps the time source, mostly for expiry tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec builds a codec for secret. It returns ErrWeakSecret when the
// secret is shorter than MinSecretLength.
func NewCodec(secret []byte, opts ...CodecOption) (*Codec, error) {
	c := &Codec{
		ttl: DefaultSessionTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	signer, err := NewSignerHS256(secret)
	if err != nil {
		return nil, err
	}
	verifier, err := NewVerifierHS256(secret, c.issuer, c.now)
	if err != nil {
		return nil, err
	}

	c.signer = signer
	c.verifier = verifier
	return c, nil
}

// Issue signs a token for subject carrying role, valid for the codec TTL.
func (c *Codec) Issue(subject, role string) (Token, error) {
	if subject == "" {
		return Token{}, fmt.Errorf("jwtx: empty subject")
	}

	now := c.now().UTC()
	claims := NewSessionClaims(subject, role, c.issuer, c.ttl, now)

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return Token{}, fmt.Errorf("jwtx: sign: %w", err)
	}

	return Token{Value: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify checks signature and expiry. Errors are ErrInvalidSig, ErrExpired,
// ErrIssuer or wrap ErrMalformed.
func (c *Codec) Verify(token string) (Claims, error) {
	return c.verifier.Verify(token)
}

// TTL is the lifetime given to every issued token.
func (c *Codec) TTL() time.Duration { return c.ttl }
