// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/numbersmith/number-inventory-service/cmd/service"
)

// gracefulShutdownSeconds should be higher than the NATS flush timeout and
// lower than the pod's terminationGracePeriodSeconds.
const gracefulShutdownSeconds = 25

func newServeCmd(a *app) *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == 0 {
				port = a.cfg.Port
			}
			addr := net.JoinHostPort("", strconv.Itoa(port))
			if bind != "*" {
				addr = net.JoinHostPort(bind, strconv.Itoa(port))
			}
			return serve(cmd.Context(), a, addr)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (defaults to the configured port)")
	cmd.Flags().StringVar(&bind, "bind", "*", "interface to bind on")
	return cmd
}

func serve(ctx context.Context, a *app, addr string) error {
	slog.InfoContext(ctx, "starting number inventory service",
		"addr", addr,
		"provider_source", a.cfg.ProviderSource,
		"inventory_source", a.cfg.InventorySource,
		"publisher_source", a.cfg.PublisherSource,
		"graceful_shutdown_seconds", gracefulShutdownSeconds,
	)

	deps, err := service.NewDependencies(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer deps.Close(context.WithoutCancel(ctx))

	handler := service.NewRouter(service.NewNumbersHandler(deps.Search, deps.Acquisition), deps.Auth, a.cfg.Debug)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.InfoContext(gctx, "HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.InfoContext(gctx, "shutting down HTTP server", "addr", addr)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), gracefulShutdownSeconds*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown HTTP server", "error", err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.InfoContext(ctx, "graceful shutdown completed")
	return nil
}
