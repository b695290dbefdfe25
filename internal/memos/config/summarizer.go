package config

import (
	"strings"
	"time"
)

// SummarizerConfig содержит настройки OpenAI-совместимого сервиса суммаризации.
type SummarizerConfig struct {
	APIKey  string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL string        `yaml:"base_url" env:"MEMOS_SUMMARIZER_BASE_URL"`
	Model   string        `yaml:"model" env:"MEMOS_SUMMARIZER_MODEL" env-default:"gpt-4o-mini"`
	Timeout time.Duration `yaml:"timeout" env:"MEMOS_SUMMARIZER_TIMEOUT" env-default:"30s"`
}

// Enabled сообщает, задан ли ключ API.
func (c *SummarizerConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}
