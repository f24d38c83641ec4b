package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/onboardops/onboardops/internal/config"
	"github.com/onboardops/onboardops/internal/dataset"
	"github.com/onboardops/onboardops/internal/directory"
	"github.com/onboardops/onboardops/internal/excel"
	httpapp "github.com/onboardops/onboardops/internal/http"
	"github.com/onboardops/onboardops/internal/logging"
	"github.com/onboardops/onboardops/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the onboarding JSON API server.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	if _, err := logging.BootstrapFromEnv(logging.BootstrapOptions{Command: "onboardops serve"}); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := directory.New(cfg.DirectoryBaseURL, cfg.DirectoryAPIToken)
	if err != nil {
		return err
	}
	client.HTTP.Timeout = cfg.DirectoryTimeout

	ds := dataset.New(dataset.Options{Codec: excel.Codec{}})

	srv, err := httpapp.NewEchoServer(cfg, client, ds)
	if err != nil {
		return err
	}

	_, metricsErrCh := metrics.StartServer(ctx, cfg.MetricsAddr)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr)
		errCh <- srv.StartServer(httpServer)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-metricsErrCh:
		return err
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
