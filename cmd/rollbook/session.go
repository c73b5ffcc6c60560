package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rollbook/rollbook/internal/config"
	"github.com/rollbook/rollbook/internal/db"
	"github.com/rollbook/rollbook/internal/logger"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

// cmdEnv is what a command body gets from withSession.
type cmdEnv struct {
	cfg     config.Config
	log     zerolog.Logger
	session *db.Session
}

// withSession loads config, opens the store session, runs fn and terminates
// the session again whatever fn returns.
func withSession(cmd *cobra.Command, fn func(env *cmdEnv) error) (err error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	session := db.New(db.WithLogger(log))
	if err := session.Initialize(cmd.Context(), cfg.DBPath, cfg.SchemaVersion); err != nil {
		if session.IsOpen() {
			_ = session.Terminate()
		}
		return fmt.Errorf("initializing %s: %w", cfg.DBPath, err)
	}
	defer func() {
		if terr := session.Terminate(); terr != nil && err == nil {
			err = terr
		}
	}()

	return fn(&cmdEnv{cfg: cfg, log: log, session: session})
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
