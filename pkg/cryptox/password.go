package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// PasswordParams configures Argon2id hashing.
type PasswordParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultPasswordParams follow the OWASP Argon2id minimum (19 MiB, t=2, p=1).
var DefaultPasswordParams = PasswordParams{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// ErrPasswordMismatch is returned when the password does not match the hash.
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordHasher hashes and verifies passwords. New hashes are PHC-format
// Argon2id strings; bcrypt hashes ($2a$, $2b$, $2y$) are still accepted by
// Verify so accounts imported from older deployments keep working.
//
// A PasswordHasher is immutable and safe for concurrent use.
type PasswordHasher struct {
	params PasswordParams
	pepper string
	dummy  string
}

// NewPasswordHasher builds a hasher. pepper may be empty.
func NewPasswordHasher(params PasswordParams, pepper string) (*PasswordHasher, error) {
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 {
		return nil, errors.New("cryptox: argon2 parameters must be positive")
	}
	if params.SaltLength == 0 {
		params.SaltLength = DefaultPasswordParams.SaltLength
	}
	if params.KeyLength == 0 {
		params.KeyLength = DefaultPasswordParams.KeyLength
	}

	h := &PasswordHasher{params: params, pepper: pepper}

	// The dummy hash is what VerifyDummy burns time against, it has to use
	// the same parameters as real hashes.
	filler, err := GenerateToken(TokenSize128)
	if err != nil {
		return nil, err
	}
	dummy, err := h.Hash(filler)
	if err != nil {
		return nil, err
	}
	h.dummy = dummy

	return h, nil
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		b64Salt,
		b64Hash,
	), nil
}

// Verify reports whether password matches encodedHash. Malformed hashes
// never match.
func (h *PasswordHasher) Verify(password, encodedHash string) bool {
	return h.compare(password, encodedHash) == nil
}

// VerifyDummy runs a full comparison against a throw-away hash and discards
// the result. Login calls it when no account was found so both paths cost
// about the same.
func (h *PasswordHasher) VerifyDummy(password string) {
	_ = h.compare(password, h.dummy)
}

func (h *PasswordHasher) compare(password, encodedHash string) error {
	if strings.HasPrefix(encodedHash, "$2") {
		if err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)); err != nil {
			return ErrPasswordMismatch
		}
		return nil
	}
	return h.compareArgon2(password, encodedHash)
}

// compareArgon2 checks a PHC-style Argon2id hash: $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
func (h *PasswordHasher) compareArgon2(password, encodedHash string) error {
	parts := strings.Split(encodedHash, "$")

	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	if len(parts) != 6 {
		return errors.New("invalid hash format: expected 6 parts")
	}
	if parts[1] != "argon2id" {
		return errors.New("invalid hash format: not argon2id")
	}
	if parts[2] != "v=19" {
		return errors.New("invalid hash format: wrong version")
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("invalid hash format: failed to parse parameters: %w", err)
	}
	if mem == 0 || iters == 0 || par == 0 {
		return errors.New("invalid hash format: zero parameter")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode salt: %w", err)
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode hash: %w", err)
	}
	if len(expectedHash) == 0 {
		return errors.New("invalid hash format: empty hash")
	}

	computed := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		iters,
		mem,
		par,
		uint32(len(expectedHash)), // #nosec G115 - bounded by the decoded hash
	)

	if subtle.ConstantTimeCompare(computed, expectedHash) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}
