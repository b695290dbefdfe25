package config

import "time"

// DefaultShutdownTimeout используется, если таймаут не задан или не положителен.
const DefaultShutdownTimeout = 5 * time.Second

// ShutdownConfig задает, сколько секунд даются хукам завершения
// (остановка HTTP сервера и закрытие хранилища).
type ShutdownConfig struct {
	Timeout int `yaml:"timeout" env:"MEMOS_GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"5"`
}

// GetTimeout возвращает таймаут в виде Duration.
func (c *ShutdownConfig) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultShutdownTimeout
	}
	return time.Duration(c.Timeout) * time.Second
}
