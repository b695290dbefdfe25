// Package postgres содержит общий код подключения к PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"memoboard/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogConnecting        = "connecting to Postgres database"
	LogConnected         = "successfully connected to Postgres"
	LogClosing           = "closing Postgres connection pool"
	LogMigrationsApplied = "database migrations successfully applied"
)

// Константы для сообщений об ошибках.
const (
	ErrParseConfig  = "failed to parse connection config"
	ErrCreatePool   = "failed to create connection pool"
	ErrPingDatabase = "failed to ping database"
)

// DefaultPingTimeout ограничивает первую проверку соединения.
const DefaultPingTimeout = 5 * time.Second

// Option изменяет конфигурацию пула перед созданием.
type Option func(*pgxpool.Config)

// WithConnLimits задает границы пула. Неположительные значения оставляют значения pgx.
func WithConnLimits(minConn, maxConn int) Option {
	return func(cfg *pgxpool.Config) {
		if minConn > 0 {
			cfg.MinConns = int32(minConn)
		}
		if maxConn > 0 {
			cfg.MaxConns = int32(maxConn)
		}
		if cfg.MinConns > cfg.MaxConns {
			cfg.MinConns = cfg.MaxConns
		}
	}
}

// WithConnectTimeout ограничивает установку одного соединения.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(cfg *pgxpool.Config) {
		if timeout > 0 {
			cfg.ConnConfig.ConnectTimeout = timeout
		}
	}
}

// WithHealthCheckPeriod задает период фоновой проверки соединений.
func WithHealthCheckPeriod(period time.Duration) Option {
	return func(cfg *pgxpool.Config) {
		if period > 0 {
			cfg.HealthCheckPeriod = period
		}
	}
}

// Database - пул соединений с Postgres.
type Database struct {
	pool *pgxpool.Pool
}

// New создает пул по DSN (ключ-значение или URL) и проверяет соединение.
func New(ctx context.Context, dsn string, opts ...Option) (*Database, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogConnecting)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Error(ctx, ErrParseConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrParseConfig, err)
	}

	for _, opt := range opts {
		opt(poolCfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error(ctx, ErrCreatePool, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreatePool, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Error(ctx, ErrPingDatabase, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrPingDatabase, err)
	}

	log.Info(ctx, LogConnected,
		zap.Int32("min_conns", poolCfg.MinConns),
		zap.Int32("max_conns", poolCfg.MaxConns))
	return &Database{pool: pool}, nil
}

// Pool возвращает пул соединений.
func (db *Database) Pool() *pgxpool.Pool {
	return db.pool
}

// Close закрывает пул.
func (db *Database) Close(ctx context.Context) {
	logger.Log(ctx).Info(ctx, LogClosing)
	db.pool.Close()
}

// Ping проверяет доступность базы данных.
func (db *Database) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}
