package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/mindcare/pkg/jwtx"
	"github.com/aussiebroadwan/mindcare/pkg/slogx"
)

// IdentityResolver looks the token subject back up in the credential store.
// found is false when no such account exists any more; err is reserved for
// lookup failures.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, subject string) (id Identity, found bool, err error)
}

// IdentityResolverFunc adapts a function to IdentityResolver.
type IdentityResolverFunc func(ctx context.Context, subject string) (Identity, bool, error)

func (f IdentityResolverFunc) ResolveIdentity(ctx context.Context, subject string) (Identity, bool, error) {
	return f(ctx, subject)
}

// AuthnMiddleware enforces policy in front of the mux. Public routes pass
// straight through. Protected routes need a bearer token that verifies and
// whose subject still resolves to an account; the resolved Identity is put
// on the request context.
//
// Every rejection is the same 401 so clients can't tell an expired token
// from a forged one or a deleted account.
func AuthnMiddleware(policy *AccessPolicy, v jwtx.Verifier, resolver IdentityResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if policy.Classify(r.Method, r.URL.Path) == Public {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				log.Debug("missing bearer token")
				WriteUnauthorized(w)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Info("token rejected", "err", err)
				WriteUnauthorized(w)
				return
			}

			id, found, err := resolver.ResolveIdentity(ctx, claims.Subject)
			if err != nil {
				log.Error("identity lookup failed", "err", err)
				writeServerError(w)
				return
			}
			if !found {
				log.Info("token subject no longer exists", "sub", claims.Subject)
				WriteUnauthorized(w)
				return
			}

			ctx = WithIdentity(ctx, id)
			ctx = slogx.With(ctx, "user_id", id.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credential from an Authorization header. The
// scheme is case-insensitive (RFC 6750 section 2.1).
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// WriteUnauthorized writes the uniform RFC 6750 401 response.
func WriteUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="mindcare", error="invalid_token"`)
	writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
}

func writeServerError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "server_error", "internal server error")
}

func writeError(w http.ResponseWriter, status int, code, desc string) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             code,
		"error_description": desc,
	})
}
