package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/spherical-ai/hoidap/internal/api"
)

// newServeCmd creates the HTTP server subcommand.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the question API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, src, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer src.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			h := api.NewHandler(logger, s, api.NewMetrics(reg))
			router := api.NewRouter(logger, h, api.RouterConfig{
				RequestTimeout: cfg.Server.WriteTimeout,
				ServiceName:    cfg.Observability.ServiceName,
				Gatherer:       reg,
			})

			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			srv := &http.Server{
				Addr:         addr,
				Handler:      router,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}

			serverErrors := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", addr).Str("session", s.ID()).Msg("HTTP server listening")
				serverErrors <- srv.ListenAndServe()
			}()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(shutdown)

			select {
			case err := <-serverErrors:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case sig := <-shutdown:
				logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("Graceful shutdown failed")
				if err := srv.Close(); err != nil {
					logger.Error().Err(err).Msg("Forced shutdown failed")
				}
			}

			logger.Info().Msg("Server stopped")
			return nil
		},
	}
}
