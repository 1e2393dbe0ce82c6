package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/service"
	"github.com/aussiebroadwan/mindcare/pkg/httpx"
	"github.com/aussiebroadwan/mindcare/pkg/mindsdk"
	"github.com/aussiebroadwan/mindcare/pkg/slogx"
)

// writeServiceError maps service sentinels to API errors. Anything unknown
// is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		mindsdk.ErrValidation.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrDuplicateUsername):
		mindsdk.ErrDuplicateUsername.WriteError(w)
	case errors.Is(err, service.ErrDuplicateEmail):
		mindsdk.ErrDuplicateEmail.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		mindsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		mindsdk.ErrNotFound.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		mindsdk.ErrServerError.WriteError(w)
	}
}

func writeBadBody(w http.ResponseWriter, err error) {
	mindsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
}

// identity returns the caller resolved by the authn middleware. Handlers
// behind a protected route always have one; the 401 is a backstop.
func identity(w http.ResponseWriter, r *http.Request) (httpx.Identity, bool) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteUnauthorized(w)
	}
	return id, ok
}

// NotFoundHandler answers every path no route matched.
func NotFoundHandler(w http.ResponseWriter, _ *http.Request) {
	mindsdk.ErrNotFound.WriteError(w)
}
