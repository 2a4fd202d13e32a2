package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/aquarist-labs/glass/internal/logger"
	"github.com/aquarist-labs/glass/internal/ratelimiter"
	"github.com/aquarist-labs/glass/pkg/api"
	"github.com/aquarist-labs/glass/pkg/metrics"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API and metrics servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("glass %s starting", version)
	logger.Info("Store: %s, inventory: %s", cfg.Store.Type, cfg.Inventory.Type)

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	metrics.RegisterBuildInfo(version, commit)

	// The first server to fail stops the others
	servers := pool.New().WithContext(ctx).WithCancelOnError()

	var apiServer *api.Server
	if cfg.API.Enabled {
		handler, err := api.New(a.directory, a.inventory, a.page(nil), a.metrics.API)
		if err != nil {
			return err
		}
		if rl := cfg.API.RateLimit; rl.RequestsPerSecond > 0 {
			handler.UseRateLimit(ratelimiter.New(rl.RequestsPerSecond, rl.Burst))
			logger.Info("API rate limit: %d req/s (burst %d)", rl.RequestsPerSecond, rl.Burst)
		}
		apiServer = api.NewServer(api.ServerConfig{
			Port:         cfg.API.Port,
			ReadTimeout:  cfg.API.ReadTimeout,
			WriteTimeout: cfg.API.WriteTimeout,
			IdleTimeout:  cfg.API.IdleTimeout,
		}, handler.Handler())
		servers.Go(apiServer.Start)
	} else {
		logger.Info("API server disabled")
	}

	if a.metrics.Server != nil {
		servers.Go(a.metrics.Server.Start)
	}

	servers.Go(func(ctx context.Context) error {
		<-ctx.Done()
		logger.Info("Shutdown signal received, initiating graceful shutdown...")

		if apiServer == nil {
			return nil
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return apiServer.Stop(shutdownCtx)
	})

	endpoints := make([]string, 0, 2)
	if apiServer != nil {
		endpoints = append(endpoints, fmt.Sprintf("api :%d", apiServer.Port()))
	}
	if a.metrics.Server != nil {
		endpoints = append(endpoints, fmt.Sprintf("metrics :%d", a.metrics.Server.Port()))
	}
	logger.Info("Server is running (%s). Press Ctrl+C to stop.", strings.Join(endpoints, ", "))

	if err := servers.Wait(); err != nil {
		logger.Error("Server error: %v", err)
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}
