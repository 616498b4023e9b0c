package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-register/pkg/config"
	"github.com/noah-isme/attendance-register/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	StorageDriver string
	Verbose       bool
}

// NewRootCommand creates the register command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Attendance register",
		Long: `Attendance register for a single operator.

Registers students, records one attendance status per student per day and
mirrors both collections to the configured key-value backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.StorageDriver, "storage", "", "override STORAGE_DRIVER (memory|file|redis|postgres|sqlite)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if driver := strings.ToLower(strings.TrimSpace(opts.StorageDriver)); driver != "" {
		cfg.Storage.Driver = driver
	}
	return cfg, nil
}

// commandLogger returns the service logger for serve and a no-op logger for
// one-shot commands unless --verbose is set.
func commandLogger(cfg *config.Config, opts *RootOptions, always bool) (*zap.Logger, error) {
	if !always && !opts.Verbose {
		return zap.NewNop(), nil
	}
	return logger.New(cfg)
}
