package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/mindcare/pkg/httpx"
	"github.com/aussiebroadwan/mindcare/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

// fakeResolver knows a fixed set of usernames.
func fakeResolver(users map[string]httpx.Identity, fail error) httpx.IdentityResolver {
	return httpx.IdentityResolverFunc(func(_ context.Context, subject string) (httpx.Identity, bool, error) {
		if fail != nil {
			return httpx.Identity{}, false, fail
		}
		id, ok := users[subject]
		return id, ok, nil
	})
}

type harness struct {
	codec   *jwtx.Codec
	handler http.Handler
	calls   int
	seen    httpx.Identity
}

func newHarness(t *testing.T, resolver httpx.IdentityResolver, opts ...jwtx.CodecOption) *harness {
	t.Helper()

	codec, err := jwtx.NewCodec(secret, opts...)
	require.NoError(t, err)

	h := &harness{codec: codec}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.calls++
		h.seen, _ = httpx.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h.handler = httpx.Chain(inner, httpx.AuthnMiddleware(testPolicy(), codec, resolver))
	return h
}

func (h *harness) do(method, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

var alice = httpx.Identity{UserID: "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", Username: "alice", Role: "USER"}

func TestAuthn_PublicRouteBypasses(t *testing.T) {
	h := newHarness(t, fakeResolver(nil, errors.New("must not be called")))

	rec := h.do(http.MethodPost, "/api/auth/login", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, h.calls)

	// Even a junk header is ignored on public routes
	rec = h.do(http.MethodPost, "/api/auth/register", "Bearer junk")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthn_ValidToken(t *testing.T) {
	h := newHarness(t, fakeResolver(map[string]httpx.Identity{"alice": alice}, nil))

	tok, err := h.codec.Issue("alice", "USER")
	require.NoError(t, err)

	for _, scheme := range []string{"Bearer ", "bearer ", "BEARER  "} {
		rec := h.do(http.MethodGet, "/api/journal", scheme+tok.Value)
		require.Equal(t, http.StatusOK, rec.Code, "scheme %q", scheme)
		require.Equal(t, alice, h.seen)
	}
}

func TestAuthn_UniformRejections(t *testing.T) {
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	h := newHarness(t, fakeResolver(map[string]httpx.Identity{"alice": alice}, nil), jwtx.WithClock(now))

	good, err := h.codec.Issue("alice", "USER")
	require.NoError(t, err)
	ghost, err := h.codec.Issue("ghost", "USER")
	require.NoError(t, err)

	other, err := jwtx.NewCodec([]byte("ffffffffffffffffffffffffffffffff"), jwtx.WithClock(now))
	require.NoError(t, err)
	forged, err := other.Issue("alice", "ADMIN")
	require.NoError(t, err)

	// Ordered so the clock only moves for the last case
	cases := []struct {
		name   string
		header func() string
	}{
		{"no header", func() string { return "" }},
		{"wrong scheme", func() string { return "Basic " + good.Value }},
		{"empty bearer", func() string { return "Bearer " }},
		{"malformed", func() string { return "Bearer not.a.jwt" }},
		{"forged signature", func() string { return "Bearer " + forged.Value }},
		{"unknown subject", func() string { return "Bearer " + ghost.Value }},
		{"expired", func() string {
			clock = clock.Add(jwtx.DefaultSessionTTL)
			return "Bearer " + good.Value
		}},
	}

	var firstBody string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(http.MethodGet, "/api/journal", tc.header())

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
			if firstBody == "" {
				firstBody = rec.Body.String()
			}
			require.Equal(t, firstBody, rec.Body.String())
		})
	}
	require.Zero(t, h.calls, "handler must never run for rejected requests")
}

func TestAuthn_ResolverFailureIs500(t *testing.T) {
	h := newHarness(t, fakeResolver(nil, errors.New("db down")))

	tok, err := h.codec.Issue("alice", "USER")
	require.NoError(t, err)

	rec := h.do(http.MethodGet, "/api/journal", "Bearer "+tok.Value)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "db down")
	require.Zero(t, h.calls)
}

func TestAuthn_UnknownRouteIsProtected(t *testing.T) {
	h := newHarness(t, fakeResolver(map[string]httpx.Identity{"alice": alice}, nil))

	rec := h.do(http.MethodGet, "/api/whatever", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentityFromContext_Empty(t *testing.T) {
	_, ok := httpx.IdentityFromContext(context.Background())
	require.False(t, ok)
}
