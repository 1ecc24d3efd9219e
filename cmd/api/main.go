package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bytedocker/site/config"
	"github.com/bytedocker/site/internal/bootstrap"
	"github.com/bytedocker/site/internal/logging"
	"github.com/bytedocker/site/internal/scheduler"
)

func main() {
	if err := start(); err != nil {
		os.Exit(1)
	}
}

// start owns the process resources so their deferred cleanup runs before
// main exits with a failure code.
func start() error {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v", err)
		return err
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Printf("logger: %v", err)
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	bootstrap.SetGinMode(cfg.App.Environment)

	app, err := bootstrap.New(ctx, cfg, logger, bootstrap.Options{Migrate: cfg.Database.AutoMigrate})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close clients", zap.Error(err))
		}
	}()

	if cfg.App.SeedDefaults {
		res, err := app.Content.SeedDefaults(ctx)
		if err != nil {
			logger.Warn("seed defaults", zap.Error(err))
		} else if res.Services || res.Clients {
			logger.Info("seeded default content", zap.Bool("services", res.Services), zap.Bool("clients", res.Clients))
		}
	}

	router, err := bootstrap.BuildRouter(app)
	if err != nil {
		return err
	}

	sched := scheduler.New(app.Content, logger.Named("scheduler"))
	if err := sched.Start(cfg.App.SyncSchedule); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv, sched, cfg.Server.ShutdownTimeout, logger)
}

type stopper interface {
	Stop(ctx context.Context)
}

// serve runs srv until ctx is done or the listener fails. bg is stopped on
// every return path.
func serve(ctx context.Context, srv *http.Server, bg stopper, timeout time.Duration, logger *zap.Logger) error {
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		bg.Stop(stopCtx)
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
