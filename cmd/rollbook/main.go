package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rollbook/rollbook/internal/config"
	"github.com/rollbook/rollbook/internal/db"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rollbook",
		Short:         "Student records for a single school, kept in SQLite",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := rootCmd.PersistentFlags()
	f.String("db", "rollbook.db", "path to the SQLite database file")
	f.Int("schema-version", db.SchemaVersion, "schema version the database must reach")
	f.String("school", "school.yaml", "path to the school file (.yaml, .yml or .toml)")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.String("log-format", "console", "log format (console or json)")

	// Viper keys use underscores so they match the env var suffix after
	// stripping the ROLLBOOK_ prefix.
	bindFlag := func(viperKey, flagName string) {
		_ = viper.BindPFlag(viperKey, f.Lookup(flagName))
	}
	bindFlag("db_path", "db")
	bindFlag("schema_version", "schema-version")
	bindFlag("school_file", "school")
	bindFlag("log_level", "log-level")
	bindFlag("log_format", "log-format")

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	rootCmd.AddCommand(
		newInitCmd(),
		newVersionCmd(),
		newStudentCmd(),
		newAccountCmd(),
		newSchoolCmd(),
		newReportCmd(),
		newMCPCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rollbook version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rollbook %s (schema %d)\n", config.Version, db.SchemaVersion)
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(env *cmdEnv) error {
				tables, err := env.session.Tables(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				green.Fprint(w, "▶ ")
				fmt.Fprintf(w, "Database: %s\n", env.session.Path())
				green.Fprint(w, "▶ ")
				fmt.Fprintf(w, "Schema:   version %d\n", env.session.CurrentVersion())
				green.Fprint(w, "▶ ")
				fmt.Fprintf(w, "Tables:   %s\n", strings.Join(tables, ", "))
				return nil
			})
		},
	}
}
