package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/mindcare/pkg/jwtx"
)

// ErrConfiguration is returned by Validate. The process refuses to start on it.
var ErrConfiguration = errors.New("configuration error")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	JWTSecret string        // Required: HMAC secret, at least 32 bytes
	TokenTTL  time.Duration // Optional: session lifetime (default: 10m)
	Issuer    string        // Optional: iss claim (default: mindcare)

	Argon2MemoryKiB  uint32 // Optional: argon2id memory (default: 19456)
	Argon2Iterations uint32 // Optional: argon2id passes (default: 2)
	PepperFile       string // Optional: pepper file, created on first start (default: none)

	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: sqlite file (default: ./mindcare.db)
	DatabaseURL    string // Required for postgres

	ClassifierURL     string        // Optional: ML service base URL (default: disabled)
	ClassifierTimeout time.Duration // Optional: per attempt (default: 5s)

	CORSAllowedOrigins []string // Optional: comma separated (default: CORS disabled)
	MetricsAddr        string   // Optional: e.g. ":9090" (default: disabled)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		JWTSecret: os.Getenv("MINDCARE_JWT_SECRET"),
		TokenTTL:  getEnvDurationOrDefault("MINDCARE_TOKEN_TTL", jwtx.DefaultSessionTTL),
		Issuer:    getEnvOrDefault("MINDCARE_ISSUER", "mindcare"),

		Argon2MemoryKiB:  getEnvUint32OrDefault("ARGON2_MEMORY_KIB", 19*1024),
		Argon2Iterations: getEnvUint32OrDefault("ARGON2_ITERATIONS", 2),
		PepperFile:       os.Getenv("PASSWORD_PEPPER_FILE"),

		DatabaseDriver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "mindcare.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		ClassifierURL:     os.Getenv("CLASSIFIER_URL"),
		ClassifierTimeout: getEnvDurationOrDefault("CLASSIFIER_TIMEOUT", 5*time.Second),

		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		MetricsAddr:        os.Getenv("METRICS_ADDR"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports every problem at once, each wrapped in ErrConfiguration.
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrConfiguration}, args...)...))
	}

	switch {
	case c.JWTSecret == "":
		fail("MINDCARE_JWT_SECRET is required")
	case len(c.JWTSecret) < jwtx.MinSecretLength:
		fail("MINDCARE_JWT_SECRET must be at least %d bytes, got %d", jwtx.MinSecretLength, len(c.JWTSecret))
	}
	if c.TokenTTL <= 0 {
		fail("MINDCARE_TOKEN_TTL must be positive")
	}
	if c.Argon2MemoryKiB == 0 || c.Argon2Iterations == 0 {
		fail("argon2 memory and iterations must be positive")
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			fail("DATABASE_FILE is required for sqlite")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			fail("DATABASE_URL is required for postgres")
		}
	default:
		fail("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.Port <= 0 || c.Port > 65535 {
		fail("PORT %d out of range", c.Port)
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvUint32OrDefault(key string, defaultValue uint32) uint32 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if n, err := strconv.ParseUint(value, 10, 32); err == nil {
		return uint32(n)
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
