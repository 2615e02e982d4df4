// Package cli implements the synthseer CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yjs2001/material-synthesis-seer/internal/config"
	"github.com/yjs2001/material-synthesis-seer/internal/history"
	"github.com/yjs2001/material-synthesis-seer/internal/persist"
)

var (
	configPath string
	storePath  string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "synthseer",
	Short: "CVD synthesis outcome prediction for 2D materials",
	Long: "Predict chemical-vapor-deposition synthesis outcomes for 2D material systems\n" +
		"via a remote scoring service and keep a local, filterable log of past predictions.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config path (default: $SYNTHSEER_CONFIG or ~/.synthseer/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&storePath, "store", "", "History storage path (overrides config)")
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log diagnostics to stderr")
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("SYNTHSEER_CONFIG"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".synthseer", "config.yaml")
}

func newLogger() *zap.Logger {
	zcfg := zap.NewDevelopmentConfig()
	if !verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// session wires the per-invocation collaborators: config, logger, durable
// slot, and the history store loaded from it.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	history *history.Store
	closer  func() error
}

func openSession() (*session, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	if storePath != "" {
		cfg.Storage.Path = storePath
	}

	retention, err := cfg.RetentionWindow()
	if err != nil {
		return nil, err
	}

	logger := newLogger()

	var slot persist.Slot
	var closer func() error
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		sq, err := persist.NewSQLiteSlot(cfg.Storage.Path, "history", retention, cfg.Storage.MaxBytes)
		if err != nil {
			return nil, err
		}
		slot, closer = sq, sq.Close
	default:
		slot = persist.NewFileSlot(cfg.Storage.Path, retention, cfg.Storage.MaxBytes)
	}

	return &session{
		cfg:     cfg,
		logger:  logger,
		history: history.Load(slot, logger),
		closer:  closer,
	}, nil
}

func (s *session) Close() {
	if s.closer != nil {
		s.closer()
	}
	s.logger.Sync()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
