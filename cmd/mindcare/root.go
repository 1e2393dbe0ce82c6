package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/app"
	"github.com/aussiebroadwan/mindcare/pkg/cryptox"
)

// NewRootCmd creates the root command for the MindCare CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mindcare",
		Short: "MindCare - journaling and appointment backend",
		Long: `MindCare serves the journaling and appointment API. Configuration
comes from the environment (MINDCARE_JWT_SECRET, DATABASE_DRIVER, ...).`,
		Version:      app.BuildVersion,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewGenSecretCmd())

	return cmd
}

// serveFlags override the environment for a single run.
type serveFlags struct {
	port     int
	logLevel string
}

func (f *serveFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.port, "port", 0, "HTTP port (overrides PORT)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
}

func (f *serveFlags) apply(fs *pflag.FlagSet, cfg *app.Config) {
	if fs.Changed("port") {
		cfg.Port = f.port
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. Migrations are applied on startup and the
process refuses to start without a JWT secret of at least 32 bytes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.LoadConfig()
			flags.apply(cmd.Flags(), &cfg)

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return oops.Code("STARTUP_FAILED").Wrap(err)
			}
			return application.Run()
		},
	}
	flags.register(cmd.Flags())

	return cmd
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending migrations for the configured DATABASE_DRIVER and exit.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg := app.LoadConfig()

	ctx := cmd.Context()
	cmd.Printf("Running %s migrations...\n", cfg.DatabaseDriver)
	db, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("driver", cfg.DatabaseDriver).Wrap(err)
	}
	defer db.Close()

	cmd.Println("Migrations completed successfully")
	return nil
}

// NewGenSecretCmd creates the gen-secret subcommand.
func NewGenSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-secret",
		Short: "Print a random 256-bit secret for MINDCARE_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
			if err != nil {
				return oops.Code("SECRET_FAILED").Wrap(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), secret)
			return err
		},
	}
}
