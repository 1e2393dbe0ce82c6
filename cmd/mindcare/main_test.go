package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/app"
	"github.com/aussiebroadwan/mindcare/pkg/jwtx"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	for _, sub := range []string{"serve", "migrate", "gen-secret"} {
		assert.Contains(t, buf.String(), sub, "Help missing %q command", sub)
	}
}

func TestGenSecret(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"gen-secret"})

	require.NoError(t, cmd.Execute())

	secret := strings.TrimSpace(buf.String())
	require.Len(t, secret, 43)
	require.GreaterOrEqual(t, len(secret), jwtx.MinSecretLength)
}

func TestServeFlags_OverrideEnvironment(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantPort  int
		wantLevel string
	}{
		{"no flags", nil, 8080, "info"},
		{"port", []string{"--port", "9000"}, 9000, "info"},
		{"both with equals", []string{"--port=9001", "--log-level=debug"}, 9001, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := &serveFlags{}
			fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
			flags.register(fs)
			require.NoError(t, fs.Parse(tt.args))

			cfg := app.Config{Port: 8080, LogLevel: "info"}
			flags.apply(fs, &cfg)
			assert.Equal(t, tt.wantPort, cfg.Port)
			assert.Equal(t, tt.wantLevel, cfg.LogLevel)
		})
	}
}

func TestMigrate_SQLite(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_FILE", filepath.Join(t.TempDir(), "mindcare.db"))

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"migrate"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Migrations completed successfully")
}

func TestServe_RefusesWeakSecret(t *testing.T) {
	t.Setenv("MINDCARE_JWT_SECRET", "short")
	t.Setenv("DATABASE_FILE", filepath.Join(t.TempDir(), "mindcare.db"))

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"serve"})

	err := cmd.Execute()
	require.ErrorIs(t, err, app.ErrConfiguration)
}
