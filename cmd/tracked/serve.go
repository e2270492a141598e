package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tracked/internal/config"
	"github.com/vango-dev/tracked/internal/errors"
	"github.com/vango-dev/tracked/internal/server"
	"github.com/vango-dev/tracked/pkg/reactive"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a counters board",
		Long: `Serve a counters board over HTTP and WebSocket.

Configuration is read from --config, or from tracked.json in the working
directory when it exists, or defaults otherwise. --addr overrides the
configured host and port.

Examples:
  tracked serve
  tracked serve --addr=:9000
  tracked serve --config=./deploy/tracked.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(configPath, addr)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, os.Stderr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to tracked.json")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on, host:port")

	return cmd
}

// loadServeConfig resolves the configuration for serve.
func loadServeConfig(path, addr string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case path != "":
		cfg, err = config.LoadOrDefault(path)
	case config.Exists("."):
		cfg, err = config.Load(".")
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}

	if addr != "" {
		host, portStr, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, errors.New("T001").
				WithDetailf("--addr %q is not host:port", addr).
				Wrap(err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, errors.New("T001").
				WithDetailf("--addr port %q is not a number", portStr).
				Wrap(err)
		}
		cfg.Server.Host = host
		cfg.Server.Port = port
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger builds the process logger from the log section of cfg.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Log.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

// installLogger builds the process logger and makes it the reactive
// runtime's logger. restore puts the runtime back on slog.Default.
func installLogger(cfg *config.Config, w io.Writer) (logger *slog.Logger, restore func(), err error) {
	logger, err = newLogger(cfg, w)
	if err != nil {
		return nil, nil, err
	}
	reactive.SetLogger(logger)
	return logger, func() { reactive.SetLogger(nil) }, nil
}

func runServe(ctx context.Context, cfg *config.Config, logOut io.Writer) error {
	logger, restore, err := installLogger(cfg, logOut)
	if err != nil {
		return err
	}
	defer restore()

	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		return err
	}

	printBanner()
	success("Serving counters on http://%s", cfg.Address())
	info("WebSocket:  ws://%s/ws", cfg.Address())
	if cfg.Metrics.Disabled {
		warn("Metrics are disabled")
	} else {
		info("Metrics:    http://%s%s", cfg.Address(), cfg.Metrics.Path)
	}
	info("Strategy:   %s", cfg.Board.Strategy)
	if p := cfg.Path(); p != "" {
		info("Config:     %s", p)
	}

	return srv.ListenAndServe(ctx)
}
