package config

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
)

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"MEMOS_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"MEMOS_HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"MEMOS_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"MEMOS_HTTP_WRITE_TIMEOUT" env-default:"60s"`
	// Запросы суммаризации несут текст заметки целиком.
	BodyLimit int `yaml:"body_limit" env:"MEMOS_HTTP_BODY_LIMIT" env-default:"1048576"`
}

// GetAddress возвращает адрес HTTP сервера. IPv6-адреса берутся в скобки.
func (c *HTTPConfig) GetAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// FiberConfig переводит настройки в конфигурацию fiber.
func (c *HTTPConfig) FiberConfig() fiber.Config {
	return fiber.Config{
		AppName:      ServiceName,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		BodyLimit:    c.BodyLimit,
	}
}
