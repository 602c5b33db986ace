package bootstrap

import (
	"time"

	"go.uber.org/fx"

	"browserflow/internal/browser"
	"browserflow/internal/config"
	"browserflow/internal/console"
	"browserflow/internal/httpapi"
	"browserflow/internal/ports"
	"browserflow/internal/snapshot"
	"browserflow/internal/store"
	"browserflow/internal/usecase"
)

func NewApp() *fx.App {
	return fx.New(
		fx.Provide(
			config.GetConfig,
			newLogger,
			newTraceProvider,

			fx.Annotate(browser.NewManager, fx.As(new(ports.BrowserSession))),
			fx.Annotate(snapshot.NewHTMLLoader, fx.As(new(ports.SnapshotSource))),
			fx.Annotate(store.NewFileStore, fx.As(new(ports.LockfileStore)), fx.As(new(ports.TestWriter))),

			usecase.NewUsecase,

			console.NewInterface,
			httpapi.NewHandler,
		),

		fx.Invoke(
			startTracing,
			closeBrowser,
			runHTTP,
			runConsole,
		),

		fx.StartTimeout(10*time.Second),
	)
}
