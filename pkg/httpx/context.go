package httpx

import "context"

// Identity is who the current request is acting as. It is re-derived from
// the credential store on every request and never cached across requests.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

type ctxKey struct{}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity put there by AuthnMiddleware.
// ok is false on public routes.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
