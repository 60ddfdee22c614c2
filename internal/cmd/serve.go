package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hamzaessahbaoui/twitter-mcp/internal/config"
	"github.com/hamzaessahbaoui/twitter-mcp/internal/logging"
	"github.com/hamzaessahbaoui/twitter-mcp/internal/metrics"
	"github.com/hamzaessahbaoui/twitter-mcp/internal/server"
	"github.com/hamzaessahbaoui/twitter-mcp/pkg/failure"
	"github.com/hamzaessahbaoui/twitter-mcp/pkg/tools/twitter"
	twitterapi "github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
	"github.com/hamzaessahbaoui/twitter-mcp/toolkit"
)

const (
	serverName      = "twitter-mcp"
	shutdownTimeout = 5 * time.Second
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.Options{File: opts.configFile, EnvFile: opts.envFile})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	recorder := metrics.NewRecorder()

	tk, err := buildToolkit(cfg, logger, recorder)
	if err != nil {
		return err
	}
	srv := server.New(serverName, Version, tk)

	logger.Info("starting server",
		"version", Version,
		"tools", len(tk.Tools()),
		"api_key", logging.MaskSecret(cfg.Twitter.APIKey),
		"metrics_addr", cfg.Metrics.Addr,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.Run(gctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server: %w", err)
		}
		// The client closing stdin ends the session; stop the metrics listener too.
		stop()
		return nil
	})
	if cfg.Metrics.Addr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.Metrics.Addr, recorder, logger)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// buildToolkit wires the API client, the failure responder and the metrics
// observer into a toolkit carrying every tool.
func buildToolkit(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*toolkit.Toolkit, error) {
	client := twitterapi.NewClient(twitterapi.Config{
		Credentials: twitterapi.Credentials{
			APIKey:            cfg.Twitter.APIKey,
			APISecret:         cfg.Twitter.APISecret,
			AccessToken:       cfg.Twitter.AccessToken,
			AccessTokenSecret: cfg.Twitter.AccessTokenSecret,
		},
		BaseURL:   cfg.Twitter.BaseURL,
		UploadURL: cfg.Twitter.UploadURL,
		Timeout:   cfg.Twitter.Timeout,
		Logger:    logger.With("component", "twitter"),
	})
	responder := failure.NewResponder(failure.WithLogger(logger.With("component", "failure")))

	tk := toolkit.New(serverName,
		toolkit.WithLogger(logger.With("component", "toolkit")),
		toolkit.WithObserver(recorder.Observe),
	)
	if err := twitter.Register(tk, client, responder); err != nil {
		return nil, err
	}
	return tk, nil
}

func serveMetrics(ctx context.Context, addr string, recorder *metrics.Recorder, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
