package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/justchokingaround/anistream/internal/config"
	"github.com/justchokingaround/anistream/internal/server"
)

// shutdownTimeout bounds graceful shutdown of the API server
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a JSON API",
	Long: `Serve the aggregation operations over HTTP:

  GET /api/home
  GET /api/search?q=&page=
  GET /api/ongoing?page=
  GET /api/anime/:slug
  GET /api/episode/:slug
  GET /api/batch/:slug
  GET /api/server/:serverId  (or /api/server?id=)
  GET /api/health

Failed operations answer with a JSON null body. Edits to the config file
are applied without a restart.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("address")
		if addr == "" {
			addr = cfg.Server.Address
		}

		b, err := buildBackend(cfg, logger)
		if err != nil {
			return err
		}
		srv := server.New(b.service, b.registry, logger)

		go func() {
			logger.Info("running provider health checks")
			b.registry.CheckAllProviders(context.Background())
			for _, s := range b.registry.GetProviderStatuses() {
				logger.Info("provider health", "provider", s.ProviderName, "healthy", s.Healthy, "status", s.Status)
			}
		}()

		if vcfg.ConfigFileUsed() != "" {
			vcfg.OnConfigChange(func(e fsnotify.Event) {
				logger.Info("config file changed", "name", e.Name)

				next, err := config.Decode(vcfg)
				if err != nil {
					logger.Error("failed to reload config", "error", err)
					return
				}
				applyFlagOverrides(next)

				nb, err := buildBackend(next, logger)
				if err != nil {
					logger.Error("failed to rebuild providers", "error", err)
					return
				}
				srv.Swap(nb.service, nb.registry)
				logger.Info("providers reloaded",
					"fallback_enabled", next.Fallback.Enabled,
					"preferred_quality", next.Providers.Kuramanime.PreferredQuality,
				)
			})
			vcfg.WatchConfig()
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Listen(addr)
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)

		select {
		case err := <-errCh:
			return fmt.Errorf("server stopped: %w", err)
		case s := <-sig:
			logger.Info("shutting down", "signal", s.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringP("address", "a", "", "listen address (default: server.address)")
	rootCmd.AddCommand(serveCmd)
}
