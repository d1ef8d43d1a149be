// Package config предоставляет функциональность для загрузки конфигурации из переменных окружения.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"threadnotes/pkg/logger"
)

// EnvConfigFile указывает на необязательный .env/yaml файл с настройками.
const EnvConfigFile = "NOTES_CONFIG_FILE"

const (
	msgLoadingConfiguration = "loading configuration"
	msgConfigurationLoaded  = "configuration loaded successfully"

	errFailedLoadConfiguration = "failed to load configuration"

	attrService = "service"
	attrPath    = "path"
)

// Load читает конфигурацию типа T. Если задан NOTES_CONFIG_FILE, значения берутся из файла
// и переопределяются переменными окружения; иначе только из окружения.
func Load[T any](ctx context.Context, serviceName string) (*T, error) {
	log := logger.Log(ctx)

	var cfg T
	path := os.Getenv(EnvConfigFile)

	if path == "" {
		log.Info(ctx, msgLoadingConfiguration, zap.String(attrService, serviceName))
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Error(ctx, errFailedLoadConfiguration, zap.String(attrService, serviceName), zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
		}
	} else {
		log.Info(ctx, msgLoadingConfiguration, zap.String(attrService, serviceName), zap.String(attrPath, path))
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			log.Error(ctx, errFailedLoadConfiguration, zap.String(attrService, serviceName), zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
		}
	}

	log.Info(ctx, msgConfigurationLoaded, zap.String(attrService, serviceName))
	return &cfg, nil
}
