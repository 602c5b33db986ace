package bootstrap

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"browserflow/internal/config"
	"browserflow/internal/console"
	"browserflow/internal/ports"
)

func runConsole(lc fx.Lifecycle, shutdowner fx.Shutdowner, conf *config.Config, consoleInterface *console.Interface, logger *zap.Logger) {
	if !conf.AppConfig.Interactive {
		logger.Info("Interactive console disabled")

		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting console interface...")

			go func() {
				if err := consoleInterface.Start(); err != nil {
					logger.Error("Console interface error", zap.Error(err))
				}

				if err := shutdowner.Shutdown(); err != nil {
					logger.Error("Failed to request shutdown", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := consoleInterface.Stop(); err != nil {
				logger.Error("Failed to stop console", zap.Error(err))
			}

			return nil
		},
	})
}

// closeBrowser shuts the lazily launched browser down with the app.
func closeBrowser(lc fx.Lifecycle, browser ports.BrowserSession, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down browserflow...")

			if err := browser.Close(ctx); err != nil {
				logger.Error("Failed to close browser", zap.Error(err))
			}

			return nil
		},
	})
}
