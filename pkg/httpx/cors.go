package httpx

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS lets the browser frontend call the API from allowedOrigins. With no
// origins configured it is a no-op. It must sit outside AuthnMiddleware so
// preflight requests are answered without credentials.
func CORS(allowedOrigins []string) Middleware {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "WWW-Authenticate"},
		MaxAge:         600,
	})
	return c.Handler
}
