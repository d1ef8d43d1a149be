// Package config содержит конфигурацию сервиса заметок.
package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "threadnotes/pkg/config"
	"threadnotes/pkg/logger"
)

const serviceName = "notes"

// Config представляет полную конфигурацию сервиса заметок.
type Config struct {
	Postgres   PostgresConfig   `yaml:"postgres"`
	Redis      RedisConfig      `yaml:"redis"`
	HTTP       HTTPConfig       `yaml:"http"`
	JWT        JWTConfig        `yaml:"jwt"`
	Logging    LoggingConfig    `yaml:"logging"`
	Shutdown   ShutdownConfig   `yaml:"shutdown"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// MigrationsConfig задает каталог SQL-миграций.
type MigrationsConfig struct {
	Dir string `yaml:"dir" env:"NOTES_MIGRATIONS_DIR" env-default:"./migrations/notes"`
}

// Load загружает конфигурацию из окружения или файла NOTES_CONFIG_FILE.
func Load(ctx context.Context) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s config: %w", serviceName, err)
	}

	logger.Log(ctx).Info(ctx, "notes configuration",
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.Duration("redis_list_ttl", cfg.Redis.ListTTL),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout),
		zap.String("migrations_dir", cfg.Migrations.Dir))

	return cfg, nil
}
