/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/valheimsave/pkg/config"
)

// newInitCmd represents the init command
func newInitCmd(rt *runtime) *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file",
		Long: `Create a configuration file with a generated API key for the REST server.

Examples:
  vsave init
  vsave init --config ./vsave.yaml --data-dir ./snapshots --print-key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			printKey, _ := cmd.Flags().GetBool("print-key")

			if config.ConfigExists(rt.configPath) && !force {
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration already exists at %s. Use --force to overwrite.\n", rt.configPath)
				return nil
			}

			cfg, err := config.BootstrapConfig(rt.configPath, rt.cfg.DataDir)
			if err != nil {
				return fmt.Errorf("failed to bootstrap config: %w", err)
			}
			rt.logger.Info("configuration created", "path", rt.configPath, "data_dir", cfg.DataDir)

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration created at %s\n", rt.configPath)
			if printKey {
				fmt.Fprintf(cmd.OutOrStdout(), "API key: %s\n", cfg.Security.APIKey)
			}
			return nil
		},
	}

	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key")

	return initCmd
}
