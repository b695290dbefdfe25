// Package db открывает удаленное хранилище заметок: применяет миграции и создает пул соединений.
package db

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"memoboard/internal/memos/config"
	"memoboard/pkg/db/postgres"
	"memoboard/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogDBInitializing    = "initializing memos database"
	LogDBInitialized     = "memos database initialized successfully"
	LogMigrationStarting = "starting database migrations for memos service"
	LogMigrationSkipped  = "database migrations disabled"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations      = "failed to apply memos database migrations"
	ErrDBConnection      = "failed to connect to memos database"
	ErrGetPath           = "failed to get path"
	ErrDBCheckConnection = "error checking the database connection"
)

const filePrefix = "file://"

// DB представляет соединение с базой данных заметок.
type DB struct {
	database *postgres.Database
}

// New применяет миграции (если включены) и открывает пул соединений.
func New(ctx context.Context, cfg *config.RemoteConfig) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn),
		zap.Bool("auto_migrate", cfg.AutoMigrate))

	if cfg.AutoMigrate {
		migrationsPath, err := MigrationsPath(cfg.MigrationsDir)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", ErrDBMigrations, ErrGetPath, err)
		}

		log.Info(ctx, LogMigrationStarting, zap.String("migrations_path", migrationsPath))
		if err := postgres.MigrateDSN(ctx, cfg.DatabaseURL, migrationsPath); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
		}
	} else {
		log.Info(ctx, LogMigrationSkipped)
	}

	database, err := postgres.New(ctx, cfg.DatabaseURL,
		postgres.WithConnLimits(cfg.MinConn, cfg.MaxConn),
		postgres.WithConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	log.Info(ctx, LogDBInitialized)

	return &DB{database: database}, nil
}

// MigrationsPath переводит каталог миграций в source URL для golang-migrate.
func MigrationsPath(dir string) (string, error) {
	if strings.HasPrefix(dir, filePrefix) {
		return dir, nil
	}
	if !filepath.IsAbs(dir) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		dir = abs
	}
	return filePrefix + filepath.ToSlash(dir), nil
}

// Close закрывает соединение с базой данных.
func (db *DB) Close(ctx context.Context) {
	db.database.Close(ctx)
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.database.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrDBCheckConnection, err)
	}
	return nil
}

// Database возвращает базовую реализацию.
func (db *DB) Database() *postgres.Database {
	return db.database
}
