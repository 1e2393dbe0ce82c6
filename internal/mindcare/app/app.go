package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/classifier"
	httpapi "github.com/aussiebroadwan/mindcare/internal/mindcare/http"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/observability"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/service"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/store"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/store/drivers/postgres"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/store/drivers/sqlite"
	"github.com/aussiebroadwan/mindcare/pkg/cryptox"
	"github.com/aussiebroadwan/mindcare/pkg/httpx"
	"github.com/aussiebroadwan/mindcare/pkg/jwtx"
	"github.com/aussiebroadwan/mindcare/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application wires the store, services and HTTP servers together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	codec  *jwtx.Codec
	hasher *cryptox.PasswordHasher

	authService        *service.AuthService
	identityService    *service.IdentityService
	journalService     *service.JournalService
	appointmentService *service.AppointmentService

	metrics *observability.Server // nil when METRICS_ADDR is empty

	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "mindcare",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New validates cfg and initialises every dependency. A weak or missing
// secret fails here, before anything listens.
func New(ctx context.Context, cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{cfg: cfg, logger: NewLogger(cfg)}

	codec, err := jwtx.NewCodec([]byte(cfg.JWTSecret),
		jwtx.WithIssuer(cfg.Issuer),
		jwtx.WithTTL(cfg.TokenTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	app.codec = codec

	if err := app.initHasher(); err != nil {
		return nil, err
	}

	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.db = db
	app.logger.Info("database migrations applied successfully", "driver", cfg.DatabaseDriver)

	if cfg.MetricsAddr != "" {
		app.metrics = observability.NewServer(cfg.MetricsAddr)
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// OpenStore opens the configured driver and applies its migrations.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	var (
		db  store.Store
		err error
	)
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(sqlite.FileDSN(cfg.DatabaseFile))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

// Run starts the servers and blocks until a signal or a server failure.
func (app *Application) Run() error {
	app.logger.Info("mindcare starting", "port", app.cfg.Port, "version", BuildVersion)
	for _, rule := range app.router.Policy().Rules() {
		app.logger.Debug("route policy", "method", rule.Method, "path", rule.Path, "access", rule.Access.String())
	}

	var metricsErrors <-chan error
	if app.metrics != nil {
		errCh, err := app.metrics.Start()
		if err != nil {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		metricsErrors = errCh
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case err, ok := <-metricsErrors:
		if ok && err != nil {
			_ = app.Shutdown()
			return fmt.Errorf("metrics server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests for up to the grace period, then
// closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down mindcare...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.metrics != nil {
		if err := app.metrics.Stop(ctx); err != nil {
			app.logger.Error("error stopping metrics server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("mindcare stopped")
	return nil
}

// Handler exposes the fully wired router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

func (app *Application) initHasher() error {
	var pepper string
	if app.cfg.PepperFile != "" {
		p, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
		if err != nil {
			return fmt.Errorf("failed to load password pepper: %w", err)
		}
		pepper = p
	}

	params := cryptox.DefaultPasswordParams
	params.Memory = app.cfg.Argon2MemoryKiB
	params.Iterations = app.cfg.Argon2Iterations

	hasher, err := cryptox.NewPasswordHasher(params, pepper)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	app.hasher = hasher
	return nil
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:  app.db,
		Hasher: app.hasher,
		Tokens: app.codec,
	}
	if app.metrics != nil {
		app.authService.Observer = app.metrics.Metrics()
	}

	app.identityService = &service.IdentityService{Store: app.db}
	app.journalService = &service.JournalService{Store: app.db}
	app.appointmentService = &service.AppointmentService{Store: app.db}

	if app.cfg.ClassifierURL != "" {
		app.journalService.Classifier = classifier.New(app.cfg.ClassifierURL, app.cfg.ClassifierTimeout)
		app.logger.Info("journal classifier enabled", "url", app.cfg.ClassifierURL)
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		app.codec.TTL(),
		BuildVersion,
		app.db,
		app.logger,
	)

	if app.metrics != nil {
		router.Use(app.metrics.Metrics().Middleware())
	}
	if len(app.cfg.CORSAllowedOrigins) > 0 {
		router.Use(httpx.CORS(app.cfg.CORSAllowedOrigins))
	}

	router.AuthService = app.authService
	router.IdentityService = app.identityService
	router.JournalService = app.journalService
	router.AppointmentService = app.appointmentService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
