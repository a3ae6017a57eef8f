/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/valheimsave/pkg/api"
	"github.com/ssargent/valheimsave/pkg/config"
)

// newServeCmd represents the serve command
func newServeCmd(rt *runtime) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the REST API server. Requests under /api/v1 must carry the configured
key in the X-API-Key header. Prometheus metrics are served at /metrics.

Examples:
  vsave serve
  vsave serve --port 9200 --bind 0.0.0.0 --api-key mysecretkey`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.cfg
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("bind") {
				cfg.Bind, _ = cmd.Flags().GetString("bind")
			}
			if cmd.Flags().Changed("api-key") {
				cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
			}

			if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
				key, err := config.GenerateSecureKey(32)
				if err != nil {
					return err
				}
				cfg.Security.APIKey = key
				rt.logger.Warn("no api key configured, generated one for this run", "api_key", key)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			store, err := rt.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			starter := container.GetServerFactory().CreateServerStarter()
			serverConfig := api.ServerConfig{
				Bind:           cfg.Bind,
				Port:           cfg.Port,
				APIKey:         cfg.Security.APIKey,
				ItemTrailer:    cfg.Decoder.ItemTrailer,
				InventoryField: cfg.Decoder.InventoryField,
			}
			if err := starter.StartServer(ctx, store, serverConfig, rt.logger); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides port)")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to (overrides bind)")
	serveCmd.Flags().String("api-key", "", "API key required in X-API-Key (overrides security.api_key)")

	return serveCmd
}
