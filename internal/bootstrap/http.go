package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"browserflow/internal/config"
	"browserflow/internal/httpapi"
)

func runHTTP(lc fx.Lifecycle, conf *config.Config, handler *httpapi.Handler, logger *zap.Logger) {
	if conf.HTTPConfig.Addr == "" {
		return
	}

	server := &http.Server{
		Addr:              conf.HTTPConfig.Addr,
		Handler:           handler.Router(),
		ReadTimeout:       conf.HTTPConfig.ReadTimeout,
		ReadHeaderTimeout: conf.HTTPConfig.ReadTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return err
			}

			logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))

			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server error", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")

			return server.Shutdown(ctx)
		},
	})
}
