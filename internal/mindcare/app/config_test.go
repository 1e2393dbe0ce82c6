package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const strongSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{
		"MINDCARE_JWT_SECRET", "MINDCARE_TOKEN_TTL", "MINDCARE_ISSUER", "DATABASE_DRIVER",
		"DATABASE_FILE", "CLASSIFIER_URL", "CORS_ALLOWED_ORIGINS", "METRICS_ADDR", "PORT",
		"ARGON2_MEMORY_KIB", "ARGON2_ITERATIONS",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	require.Equal(t, 10*time.Minute, cfg.TokenTTL)
	require.Equal(t, "mindcare", cfg.Issuer)
	require.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	require.Equal(t, "mindcare.db", cfg.DatabaseFile)
	require.Equal(t, uint32(19456), cfg.Argon2MemoryKiB)
	require.Equal(t, uint32(2), cfg.Argon2Iterations)
	require.Equal(t, 5*time.Second, cfg.ClassifierTimeout)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Empty(t, cfg.CORSAllowedOrigins)
	require.Empty(t, cfg.MetricsAddr)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("MINDCARE_JWT_SECRET", strongSecret)
	t.Setenv("MINDCARE_TOKEN_TTL", "15")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/mindcare")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://localhost:5173, ,https://app.example ")
	t.Setenv("PORT", "not-a-number")
	t.Setenv("ARGON2_MEMORY_KIB", "65536")

	cfg := LoadConfig()
	require.Equal(t, 15*time.Minute, cfg.TokenTTL, "bare integers are minutes")
	require.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	require.Equal(t, []string{"http://localhost:5173", "https://app.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, uint32(65536), cfg.Argon2MemoryKiB)
	require.NoError(t, cfg.Validate())
}

func validConfig() Config {
	return Config{
		JWTSecret:           strongSecret,
		TokenTTL:            10 * time.Minute,
		Issuer:              "mindcare",
		Argon2MemoryKiB:     64,
		Argon2Iterations:    1,
		DatabaseDriver:      DriverSQLite,
		DatabaseFile:        "mindcare.db",
		Port:                8080,
		ShutdownGracePeriod: time.Second,
		LogLevel:            "error",
		LogFormat:           "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "MINDCARE_JWT_SECRET is required"},
		{"weak secret", func(c *Config) { c.JWTSecret = "short" }, "at least 32 bytes"},
		{"31 byte secret", func(c *Config) { c.JWTSecret = strongSecret[:31] }, "at least 32 bytes"},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }, "MINDCARE_TOKEN_TTL"},
		{"zero argon2", func(c *Config) { c.Argon2Iterations = 0 }, "argon2"},
		{"postgres without url", func(c *Config) { c.DatabaseDriver = DriverPostgres }, "DATABASE_URL"},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, "unknown DATABASE_DRIVER"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "PORT"},
	}

	require.NoError(t, validConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, ErrConfiguration)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNew_RefusesWeakSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = "too-short"
	cfg.DatabaseFile = filepath.Join(t.TempDir(), "mindcare.db")

	_, err := New(t.Context(), cfg)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestNew_WiresEverything(t *testing.T) {
	dir := t.TempDir()
	cfg := validConfig()
	cfg.DatabaseFile = filepath.Join(dir, "mindcare.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.CORSAllowedOrigins = []string{"http://localhost:5173"}

	app, err := New(t.Context(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	require.NotNil(t, app.Handler())
	require.NotNil(t, app.journalService)
	require.Nil(t, app.journalService.Classifier, "classifier stays off without a URL")
	require.Nil(t, app.metrics)
	require.FileExists(t, cfg.PepperFile)
}
