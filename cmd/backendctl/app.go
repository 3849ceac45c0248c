package main

import (
	"context"

	"github.com/brizzai/backend-client/internal/backend"
	"github.com/brizzai/backend-client/internal/config"
	"github.com/brizzai/backend-client/internal/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// newApp wires the backend module from the loaded configuration and fills
// targets through fx.Populate.
func newApp(cfg *config.Config, targets ...any) *fx.App {
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.GetLogger().Named("fx")}
		}),
		config.Module(cfg),
		fx.Provide(
			func(p *config.Provider) backend.ConfigProvider { return p },
			backendSettings,
		),
		backend.Module,
		fx.Populate(targets...),
	)
}

func backendSettings(c *config.BackendConfig) backend.Settings {
	return backend.Settings{
		Transport: backend.TransportKind(c.Transport),
		Timeout:   c.Timeout,
	}
}

// runApp starts the application, runs fn and stops it again. Stopping drains
// the completion queue, so callbacks submitted by fn have run on return.
func runApp(ctx context.Context, app *fx.App, fn func(ctx context.Context) error) error {
	if err := app.Err(); err != nil {
		logger.Fatal("Failed to initialize backend client", zap.Error(err))
	}
	if err := app.Start(ctx); err != nil {
		return err
	}

	runErr := fn(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}
