// Package app assembles the social network service and owns its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"social-network-service/cmd/api/di"
	"social-network-service/cmd/api/server"
	"social-network-service/internal/config"
	"social-network-service/pkg/logger"

	"go.uber.org/zap"
)

// App ties the configuration, logger, dependency container and listeners together.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container
}

// New reads configuration from CONFIG_PATH and the environment, then opens
// the database and Redis and prepares the gRPC, gateway and REST listeners.
func New() (*App, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	container, err := di.NewContainer(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	srv, err := server.New(cfg, l, container)
	if err != nil {
		_ = container.Close()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Server:    srv,
		Container: container,
	}, nil
}

// Run serves until ctx is cancelled or a listener fails, then releases everything.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("panic recovered in application",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()

	a.Logger.Info("starting social network service",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", getEnvironment()),
		zap.String("rest_port", a.Config.App.GinPort),
		zap.String("grpc_port", a.Config.App.GRPCPort),
		zap.String("gateway_port", a.Config.App.HTTPPort),
	)

	serveErr := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				serveErr <- fmt.Errorf("server panic: %v", r)
			}
		}()
		serveErr <- a.Server.Start()
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("shutdown requested")
		return a.shutdown()
	case err := <-serveErr:
		if err != nil {
			a.Logger.Error("listener failed", zap.Error(err))
			err = fmt.Errorf("server error: %w", err)
		}
		return errors.Join(err, a.shutdown())
	}
}

// shutdown stops accepting requests and releases the store connections.
// Listeners share one deadline of ShutdownTimeoutSeconds.
func (a *App) shutdown() error {
	timeout := time.Duration(a.Config.App.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.Logger.Info("draining listeners", zap.Duration("timeout", timeout))

	var errs []error

	// REST and gateway first so no new work reaches the usecases
	for _, step := range []struct {
		name string
		stop func(context.Context) error
	}{
		{"gateway", shutdownHTTP(a.Server.HTTP)},
		{"rest", shutdownHTTP(a.Server.Gin)},
	} {
		if err := step.stop(shutdownCtx); err != nil {
			a.Logger.Error("listener shutdown failed", zap.String("listener", step.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s shutdown: %w", step.name, err))
		}
	}

	if a.Server.GRPC != nil {
		stopGRPC(shutdownCtx, a.Server)
	}

	if err := a.Server.Close(); err != nil {
		errs = append(errs, fmt.Errorf("gateway connection close: %w", err))
	}

	// Postgres and Redis go last; in-flight handlers may still need them
	if a.Container != nil {
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("failed to close stores", zap.Error(err))
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	a.Logger.Info("social network service stopped")

	if err := a.Logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}

	return errors.Join(errs...)
}

func shutdownHTTP(srv *http.Server) func(context.Context) error {
	return func(ctx context.Context) error {
		if srv == nil {
			return nil
		}
		return srv.Shutdown(ctx)
	}
}

// stopGRPC drains in-flight RPCs, forcing a stop when the deadline passes.
func stopGRPC(ctx context.Context, s *server.Server) {
	done := make(chan struct{})
	go func() {
		s.GRPC.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.GRPC.Stop()
	}
}

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewWithConfig(logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       cfg.Logger.OutputPath,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      cfg.Logger.ServiceName,
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      getEnvironment(),
		MaxSizeMB:        cfg.Logger.MaxSizeMB,
		MaxBackups:       cfg.Logger.MaxBackups,
		MaxAgeDays:       cfg.Logger.MaxAgeDays,
	})
}

// getConfigPath is the directory holding app.env; defaults to the working directory.
func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}

func getEnvironment() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "development"
}
