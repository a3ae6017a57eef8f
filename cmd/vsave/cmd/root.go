/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/valheimsave/pkg/config"
	"github.com/ssargent/valheimsave/pkg/di"
	"github.com/ssargent/valheimsave/pkg/logging"
)

var container *di.Container

// SetContainer sets the dependency injection container
func SetContainer(c *di.Container) {
	container = c
}

// runtime is the configuration and logger resolved for one invocation
type runtime struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rt := &runtime{cfg: config.DefaultConfig(), logger: logging.Discard()}

	rootCmd := &cobra.Command{
		Use:   "vsave",
		Short: "Valheim save inventory reader",
		Long: `vsave decodes the base64 inventory blobs found in Valheim character saves,
summarizes them, and keeps snapshots so inventories can be compared over time.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file (default: ~/.config/vsave/config.yaml)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")
	flags.Bool("no-color", false, "Disable colored log output")
	flags.StringP("data-dir", "d", "", "Data directory for snapshots")

	rootCmd.AddCommand(
		newInitCmd(rt),
		newParseCmd(rt),
		newSummaryCmd(rt),
		newSnapshotCmd(rt),
		newServeCmd(rt),
	)

	return rootCmd
}

// load reads the config file if present and applies flag overrides
func (rt *runtime) load(cmd *cobra.Command) error {
	rt.configPath, _ = cmd.Flags().GetString("config")
	if rt.configPath == "" {
		rt.configPath = config.GetDefaultConfigPath()
	}

	if config.ConfigExists(rt.configPath) {
		cfg, err := config.LoadConfig(rt.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		rt.cfg = cfg
	}

	if cmd.Flags().Changed("log-level") {
		rt.cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		rt.cfg.Logging.Format, _ = cmd.Flags().GetString("log-format")
	}
	if cmd.Flags().Changed("data-dir") {
		rt.cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	noColor, _ := cmd.Flags().GetBool("no-color")

	logger, err := logging.Setup(cmd.ErrOrStderr(), rt.cfg.Logging.Level, rt.cfg.Logging.Format, noColor)
	if err != nil {
		return err
	}
	rt.logger = logger
	logger.Debug("configuration loaded", "path", rt.configPath, "data_dir", rt.cfg.DataDir)

	return nil
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
