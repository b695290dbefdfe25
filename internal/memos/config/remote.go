package config

import (
	"strings"
	"time"
)

// RemoteConfig содержит настройки удаленного хранилища (PostgreSQL).
// Пустой DatabaseURL означает работу с локальным хранилищем.
type RemoteConfig struct {
	DatabaseURL   string `yaml:"database_url" env:"MEMOS_REMOTE_DATABASE_URL"`
	MinConn       int    `yaml:"min_conn" env:"MEMOS_REMOTE_MIN_CONN" env-default:"1"`
	MaxConn       int    `yaml:"max_conn" env:"MEMOS_REMOTE_MAX_CONN" env-default:"10"`
	MigrationsDir string `yaml:"migrations_dir" env:"MEMOS_REMOTE_MIGRATIONS_DIR" env-default:"migrations/memos"`
	AutoMigrate   bool   `yaml:"auto_migrate" env:"MEMOS_REMOTE_AUTO_MIGRATE" env-default:"true"`

	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MEMOS_REMOTE_CONNECT_TIMEOUT" env-default:"5s"`
}

// Enabled сообщает, задано ли удаленное хранилище.
func (c *RemoteConfig) Enabled() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}
