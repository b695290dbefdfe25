// Package config содержит конфигурацию сервиса заметок.
package config

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	pkgconfig "memoboard/pkg/config"
	"memoboard/pkg/logger"
)

// ServiceName - имя сервиса в логах.
const ServiceName = "memos"

// EnvConfigFile - переменная с путем к необязательному файлу конфигурации.
const EnvConfigFile = "MEMOS_CONFIG_FILE"

// Константы ошибок и сообщений для конфигурации.
const (
	LogConfigSummary      = "memos configuration"
	ErrInvalidConfig      = "invalid configuration"
	ErrUnknownLocalDriver = "unknown local storage driver"
)

// Config представляет полную конфигурацию сервиса.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Remote     RemoteConfig     `yaml:"remote"`
	Local      LocalConfig      `yaml:"local"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Logging    LoggingConfig    `yaml:"logging"`
	Shutdown   ShutdownConfig   `yaml:"shutdown"`
}

// Load загружает конфигурацию из окружения. Если задан MEMOS_CONFIG_FILE,
// сначала читается файл, а переменные окружения перекрывают его значения.
func Load(ctx context.Context) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, os.Getenv(EnvConfigFile))
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInvalidConfig, err)
	}

	logger.Log(ctx).Info(ctx, LogConfigSummary,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.Bool("remote_store", cfg.Remote.Enabled()),
		zap.String("local_driver", cfg.Local.Driver),
		zap.Bool("summarizer_enabled", cfg.Summarizer.Enabled()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}

// Validate проверяет значения, которые cleanenv не может проверить сам.
func (c *Config) Validate() error {
	switch c.Local.Driver {
	case LocalDriverSQLite, LocalDriverRedis:
		return nil
	default:
		return fmt.Errorf("%s: %q", ErrUnknownLocalDriver, c.Local.Driver)
	}
}
