package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/quill"
	"github.com/aretw0/quill/internal/presentation/tui"
	httpAdapter "github.com/aretw0/quill/pkg/adapters/http"
	"github.com/aretw0/quill/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Exposes parsing, compilation, a websocket frame preview and Prometheus metrics over HTTP.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.HTTP.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, addr)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (defaults to http.addr from the config)")
	return cmd
}

func (a *app) serve(ctx context.Context, addr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}

	eng, closeStore, err := a.engine(ctx, "", quill.WithLifecycleHooks(metrics.Hooks()))
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr: addr,
		Handler: httpAdapter.NewHandler(eng,
			httpAdapter.WithLogger(a.logger),
			httpAdapter.WithGatherer(reg),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if colorful(os.Stdout) {
		tui.PrintBanner(os.Stdout, quill.Version, true)
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		a.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		a.logger.Info("Server stopped")
		return nil
	}
}
