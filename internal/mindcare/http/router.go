package http

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/service"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/store"
	"github.com/aussiebroadwan/mindcare/pkg/httpx"
	"github.com/aussiebroadwan/mindcare/pkg/jwtx"
	"github.com/aussiebroadwan/mindcare/pkg/slogx"

	_ "github.com/aussiebroadwan/mindcare/api/mindcare" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RoutePolicy is the single table deciding which routes skip identity
// resolution. Anything not listed is protected.
func RoutePolicy() *httpx.AccessPolicy {
	return httpx.NewAccessPolicy(httpx.Protected,
		httpx.Rule{Method: http.MethodPost, Path: "/api/auth/register", Access: httpx.Public},
		httpx.Rule{Method: http.MethodPost, Path: "/api/auth/login", Access: httpx.Public},
		httpx.Rule{Method: http.MethodGet, Path: "/livez", Access: httpx.Public},
		httpx.Rule{Method: http.MethodGet, Path: "/readyz", Access: httpx.Public},
		httpx.Rule{Method: http.MethodGet, Path: "/swagger/", Access: httpx.Public},
	)
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	policy       *httpx.AccessPolicy
	verifier     jwtx.Verifier
	tokenTTL     time.Duration
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService        *service.AuthService
	IdentityService    *service.IdentityService
	JournalService     *service.JournalService
	AppointmentService *service.AppointmentService
}

func NewRouter(
	verifier jwtx.Verifier,
	tokenTTL time.Duration,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		policy:       RoutePolicy(),
		verifier:     verifier,
		tokenTTL:     tokenTTL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Request logging is always outermost
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// Use appends global middleware. It must be called before ApplyRoutes;
// authentication always runs after everything added here.
func (r *Router) Use(mw ...httpx.Middleware) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerJournal()
	r.registerAppointments()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
	r.Mux.HandleFunc("/", NotFoundHandler)

	chain := append(slices.Clone(r.middlewares),
		httpx.AuthnMiddleware(r.policy, r.verifier, r.IdentityService),
	)
	r.handler = httpx.Chain(r.Mux, chain...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			MindCare API
//	@version		0.1.0
//	@description	Journaling and appointment booking backend.
//	@description
//	@description				Register and log in to obtain a bearer token (HS256 JWT, valid for ten minutes).
//	@description				Every other /api route requires it and only ever sees the caller's own data.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/mindcare
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, TokenTTL: r.tokenTTL}

	r.Mux.HandleFunc("POST /api/auth/register", h.HandleRegister)
	r.Mux.HandleFunc("POST /api/auth/login", h.HandleLogin)
	r.Mux.HandleFunc("GET /api/me", HandleMe)
}

func (r *Router) registerJournal() {
	h := &JournalHandler{JournalService: r.JournalService}

	r.Mux.HandleFunc("POST /api/journal", h.HandleCreate)
	r.Mux.HandleFunc("GET /api/journal", h.HandleList)
	r.Mux.HandleFunc("GET /api/journal/{id}", h.HandleGet)
	r.Mux.HandleFunc("DELETE /api/journal/{id}", h.HandleDelete)
}

func (r *Router) registerAppointments() {
	h := &AppointmentsHandler{AppointmentService: r.AppointmentService}

	r.Mux.HandleFunc("POST /api/appointments", h.HandleBook)
	r.Mux.HandleFunc("GET /api/appointments", h.HandleList)
	r.Mux.HandleFunc("DELETE /api/appointments/{id}", h.HandleCancel)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

// Policy returns the access table the router enforces.
func (r *Router) Policy() *httpx.AccessPolicy { return r.policy }
