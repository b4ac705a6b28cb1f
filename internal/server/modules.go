// Package server hosts the REST façade over the document processing
// engine: routing, the JSON envelope, async jobs and fx wiring.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"

	"go.uber.org/fx"

	"github.com/hsn0918/r3m/pkg/config"
	"github.com/hsn0918/r3m/pkg/engine"
	"github.com/hsn0918/r3m/pkg/logger"
	"github.com/hsn0918/r3m/pkg/redis"
	"github.com/hsn0918/r3m/pkg/storage"
)

// Module is the top-level fx module of the server binary.
var Module = fx.Options(
	InfrastructureModule,
	ServicesModule,
	HTTPServerModule,
	fx.Invoke(StartHTTPServer),
)

// InfrastructureModule provides configuration, logging and optional
// backing stores.
var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		NewAppConfig,
		NewAppLogger,
		NewJobStore,
		NewDocumentSource,
	),
)

// ServicesModule provides the engine and job tracking.
var ServicesModule = fx.Module("services",
	fx.Provide(
		NewEngine,
		NewJobManagerFromStore,
		NewHandler,
	),
)

// HTTPServerModule provides the HTTP server.
var HTTPServerModule = fx.Module("http_server",
	fx.Provide(
		NewHTTPServer,
	),
)

// NewAppConfig loads the configuration from R3M_CONFIG_PATH (default
// "."), falling back to defaults when no file exists.
func NewAppConfig() (*config.Config, error) {
	path := os.Getenv("R3M_CONFIG_PATH")
	if path == "" {
		path = "."
	}
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			defaults := config.Default()
			return &defaults, nil
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// NewAppLogger initializes the global JSON logger.
func NewAppLogger() (*slog.Logger, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Get(), nil
}

// NewJobStore connects the optional Redis job store.
func NewJobStore(cfg *config.Config) (redis.Store, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	return client, nil
}

// NewDocumentSource connects the optional MinIO document source.
func NewDocumentSource(cfg *config.Config) (storage.DocumentSource, error) {
	if !cfg.MinIO.Enabled {
		return nil, nil
	}
	source, err := storage.NewMinIOSource(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO source: %w", err)
	}
	return source, nil
}

// NewEngine builds the document processing engine and ties its worker
// pool to the application lifecycle.
func NewEngine(cfg *config.Config, lifecycle fx.Lifecycle) (*engine.Engine, error) {
	eng, err := engine.NewWithConfig(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			eng.Shutdown()
			return nil
		},
	})
	return eng, nil
}

// NewJobManagerFromStore builds the job manager over the optional store.
func NewJobManagerFromStore(store redis.Store) *JobManager {
	return NewJobManager(store)
}

// StartHTTPServer binds the server to the fx lifecycle.
func StartHTTPServer(httpServer *http.Server, lifecycle fx.Lifecycle, shutdowner fx.Shutdowner) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Get().Info("starting HTTP server", "addr", httpServer.Addr)
			listener, err := net.Listen("tcp", httpServer.Addr)
			if err != nil {
				return fmt.Errorf("failed to bind %s: %w", httpServer.Addr, err)
			}
			go func() {
				if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Get().Error("HTTP server failed", "error", err)
					if shutdownErr := shutdowner.Shutdown(); shutdownErr != nil {
						logger.Get().Error("application shutdown failed", "error", shutdownErr)
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Get().Info("stopping HTTP server")
			return httpServer.Shutdown(ctx)
		},
	})
}
