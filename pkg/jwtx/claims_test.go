package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/mindcare/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "mindcare",
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("mindcare"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		err := c.ValidateIssuer("someone-else")
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})
}

func TestNewSessionClaims(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	c := jwtx.NewSessionClaims("alice", "USER", "mindcare", jwtx.DefaultSessionTTL, now)

	require.Equal(t, "alice", c.Subject)
	require.Equal(t, "USER", c.Role)
	require.Equal(t, "mindcare", c.Issuer)
	require.Equal(t, now, c.IssuedAt.Time)
	require.Equal(t, now.Add(10*time.Minute), c.ExpiresAt.Time)
}
