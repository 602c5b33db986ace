package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"browserflow/internal/config"
)

func newLogger(config *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if config.AppConfig.Debug {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	zapConfig.DisableStacktrace = true

	if config.AppConfig.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(config.AppConfig.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}

		zapConfig.Level = level
	}

	logger, err := zapConfig.Build(zap.Fields(zap.String("service", serviceName)))
	if err != nil {
		return nil, err
	}

	return logger, nil
}
