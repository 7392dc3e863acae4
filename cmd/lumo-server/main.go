// Command lumo-server is the sidecar the lumo desktop host spawns. It serves
// the item API over HTTP from the SQLite database named by LUMO_DB_PATH.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"

	"github.com/lumo-app/lumo/internal/applog"
	"github.com/lumo-app/lumo/internal/itemstore"
	"github.com/lumo-app/lumo/internal/server"
)

// config is read from the environment the host passes to the sidecar.
type config struct {
	DBPath          string        `envconfig:"LUMO_DB_PATH" default:"lumo.db"`
	Host            string        `envconfig:"LUMO_HOST" default:"127.0.0.1"`
	Port            int           `envconfig:"PORT" default:"3001"`
	LogLevel        string        `envconfig:"LUMO_LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"LUMO_SHUTDOWN_TIMEOUT" default:"5s"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		return config{}, fmt.Errorf("read environment: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return config{}, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.ShutdownTimeout <= 0 {
		return config{}, fmt.Errorf("LUMO_SHUTDOWN_TIMEOUT must be positive, got %s", cfg.ShutdownTimeout)
	}
	return cfg, nil
}

func (c config) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: applog.ParseLevel(cfg.LogLevel),
	})).With("component", "lumo-server")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := itemstore.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()

	return serve(ctx, server.New(store, logger), cfg, logger)
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *server.Server, cfg config, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start(cfg.addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
