package cryptox

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Cheap parameters so the suite stays fast.
var testParams = PasswordParams{Memory: 64, Iterations: 1, Parallelism: 1}

func newTestHasher(t *testing.T, pepper string) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(testParams, pepper)
	require.NoError(t, err)
	return h
}

func TestNewPasswordHasher_RejectsZeroParams(t *testing.T) {
	_, err := NewPasswordHasher(PasswordParams{}, "")
	require.Error(t, err)
}

func TestHash(t *testing.T) {
	h := newTestHasher(t, "")

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=64,t=1,p=1$"),
				"hash should be in PHC format")
			require.NotContains(t, hash, tt.password)

			require.True(t, h.Verify(tt.password, hash))
		})
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	h := newTestHasher(t, "")

	hash1, err := h.Hash("samepassword")
	require.NoError(t, err)
	hash2, err := h.Hash("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.True(t, h.Verify("samepassword", hash1))
	require.True(t, h.Verify("samepassword", hash2))
}

func TestVerify_WrongPassword(t *testing.T) {
	h := newTestHasher(t, "")
	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{
		"wrong-password",
		"Correct-Password",
		"correct-password ",
		"",
		"correct-passwor",
		strings.Repeat("x", 10000),
	} {
		require.False(t, h.Verify(wrong, hash), "accepted %q", wrong)
	}
}

func TestVerify_InvalidHashFormat(t *testing.T) {
	h := newTestHasher(t, "")

	for _, tt := range []struct {
		name string
		hash string
	}{
		{"empty hash", ""},
		{"wrong algorithm", "$argon2i$v=19$m=64,t=1,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=64"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"zero iterations", "$argon2id$v=19$m=64,t=0,p=1$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=64,t=1,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=64,t=1,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=64,t=1,p=1$c2FsdA$aGFzaA"},
		{"broken bcrypt", "$2a$10$short"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, h.Verify("test-password", tt.hash))
		})
	}
}

func TestVerify_LegacyBcrypt(t *testing.T) {
	h := newTestHasher(t, "some-pepper")

	legacy, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	require.True(t, h.Verify("secret123", string(legacy)))
	require.False(t, h.Verify("secret124", string(legacy)))
}

func TestVerify_PepperMustMatch(t *testing.T) {
	a := newTestHasher(t, "pepper-a")
	b := newTestHasher(t, "pepper-b")

	hash, err := a.Hash("secret123")
	require.NoError(t, err)

	require.True(t, a.Verify("secret123", hash))
	require.False(t, b.Verify("secret123", hash))
}

func TestVerifyDummy(t *testing.T) {
	h := newTestHasher(t, "")
	require.NotEmpty(t, h.dummy)
	require.True(t, strings.HasPrefix(h.dummy, "$argon2id$v=19$m=64,t=1,p=1$"))

	require.NotPanics(t, func() { h.VerifyDummy("anything") })
}

func TestLoadOrCreatePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Len(t, first, 43)

	second, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "pepper should be stable once written")
}
