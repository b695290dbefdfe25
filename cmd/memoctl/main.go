// Package main реализует memoctl - консольный клиент хранилища заметок.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"memoboard/internal/memos/bootstrap"
	"memoboard/internal/memos/config"
	"memoboard/pkg/logger"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "MEMOS_LOGGER_MODE"
	EnvLoggerLevel = "MEMOS_LOGGER_LEVEL"
)

// ErrInitLogger - ошибка создания logger.
const ErrInitLogger = "failed to initialize logger"

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	// В консоли по умолчанию выводятся только предупреждения.
	level := os.Getenv(EnvLoggerLevel)
	if level == "" {
		level = "warn"
	}

	log, err := logger.NewLogger(env, level)
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}
	logger.SetGlobalLogger(log)
	defer func() { _ = log.Sync() }()

	ctx := logger.NewRequestIDContext(context.Background(), "")

	if err := run(ctx, openFromEnv, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		_ = log.Sync()
		os.Exit(exitCode(err))
	}
}

// openFromEnv собирает сервисы по конфигурации из окружения.
func openFromEnv(ctx context.Context) (*bootstrap.Services, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg), nil
}
