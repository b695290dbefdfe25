// Package kv содержит реализации storage.KeyValueStore для локального хранилища заметок.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // регистрирует драйвер "sqlite"

	"memoboard/internal/memos/ports/storage"
	"memoboard/pkg/logger"
)

// Сообщения об ошибках SQLite.
const (
	ErrSQLiteCreateDir = "failed to create sqlite data dir"
	ErrSQLiteOpen      = "failed to open sqlite database"
	ErrSQLitePragma    = "failed to apply sqlite pragma"
	ErrSQLiteSchema    = "failed to create kv table"
	ErrSQLiteGet       = "failed to get value from sqlite"
	ErrSQLiteSet       = "failed to set value in sqlite"
	ErrSQLiteDelete    = "failed to delete value from sqlite"
	ErrSQLiteClose     = "failed to close sqlite database"
)

const logSQLiteOpened = "sqlite key-value store opened"

const kvSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

// SQLiteStore хранит пары ключ-значение в таблице kv файла SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ storage.KeyValueStore = (*SQLiteStore)(nil)

// NewSQLiteStore открывает (или создает) файл базы и таблицу kv.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrSQLiteCreateDir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSQLiteOpen, err)
	}
	db.SetMaxOpenConns(1)

	for _, p := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s %q: %w", ErrSQLitePragma, p, err)
		}
	}

	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", ErrSQLiteSchema, err)
	}

	logger.Log(ctx).Info(ctx, logSQLiteOpened, zap.String("path", path))
	return &SQLiteStore{db: db}, nil
}

// Get возвращает значение по ключу.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		logger.Log(ctx).Error(ctx, ErrSQLiteGet, zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("%s: %w", ErrSQLiteGet, err)
	}
	return value, true, nil
}

// Set записывает значение, заменяя предыдущее.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrSQLiteSet, zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrSQLiteSet, err)
	}
	return nil
}

// Delete удаляет ключ. Отсутствующий ключ не считается ошибкой.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		logger.Log(ctx).Error(ctx, ErrSQLiteDelete, zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrSQLiteDelete, err)
	}
	return nil
}

// Close закрывает базу.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrSQLiteClose, err)
	}
	return nil
}
