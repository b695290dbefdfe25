package config

import (
	"time"

	redisdb "memoboard/pkg/db/redis"
)

// Драйверы локального хранилища.
const (
	LocalDriverSQLite = "sqlite"
	LocalDriverRedis  = "redis"
)

// LocalConfig содержит настройки резервного локального хранилища.
type LocalConfig struct {
	Driver     string           `yaml:"driver" env:"MEMOS_LOCAL_DRIVER" env-default:"sqlite"`
	SQLitePath string           `yaml:"sqlite_path" env:"MEMOS_LOCAL_SQLITE_PATH" env-default:"./data/memos.db"`
	Key        string           `yaml:"key" env:"MEMOS_LOCAL_KEY" env-default:"memos"`
	Redis      LocalRedisConfig `yaml:"redis"`
}

// LocalRedisConfig - параметры Redis для драйвера redis.
type LocalRedisConfig struct {
	Host     string        `yaml:"host" env:"MEMOS_LOCAL_REDIS_HOST" env-default:"localhost"`
	Port     int           `yaml:"port" env:"MEMOS_LOCAL_REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"MEMOS_LOCAL_REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"MEMOS_LOCAL_REDIS_DB" env-default:"0"`
	PoolSize int           `yaml:"pool_size" env:"MEMOS_LOCAL_REDIS_POOL_SIZE" env-default:"10"`
	Timeout  time.Duration `yaml:"timeout" env:"MEMOS_LOCAL_REDIS_TIMEOUT" env-default:"5s"`
}

// ClientConfig переводит настройки в конфигурацию клиента Redis.
func (c *LocalRedisConfig) ClientConfig() *redisdb.Config {
	return &redisdb.Config{
		Host:     c.Host,
		Port:     c.Port,
		Password: c.Password,
		DB:       c.DB,
		PoolSize: c.PoolSize,
		Timeout:  c.Timeout,
	}
}
