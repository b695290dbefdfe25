// Package openai реализует суммаризацию заметок через OpenAI-совместимый chat completion API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"memoboard/internal/memos/domain/entities"
	"memoboard/internal/memos/markdown"
	"memoboard/internal/memos/ports/services"
	"memoboard/internal/memos/resilience"
	"memoboard/pkg/logger"
)

// Параметры запроса по умолчанию.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 200
	DefaultTemperature = 0.3
	DefaultTopP        = 0.95
	DefaultTimeout     = 30 * time.Second
)

const promptTemplate = `Summarize the following memo concisely and clearly. Cover the key content and the important points in 3-5 sentences.

Memo:
%s

Summary:`

// Сообщения.
const (
	ErrMsgEmptyInput      = "nothing to summarize"
	ErrMsgEmptyCompletion = "completion returned no text"
	ErrMsgRequest         = "chat completion request failed"

	logSummarizing = "requesting summary"
	logSummarized  = "summary received"
)

const serviceName = "openai-summarizer"

// Config содержит настройки клиента.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Summarizer реализует services.Summarizer.
type Summarizer struct {
	client     *openai.Client
	model      string
	converter  *markdown.Converter
	resilience *resilience.ServiceResilience
}

var _ services.Summarizer = (*Summarizer)(nil)

// NewSummarizer создает клиента. Пустой BaseURL означает api.openai.com.
func NewSummarizer(cfg Config) *Summarizer {
	return NewSummarizerWithResilience(cfg,
		resilience.DefaultCircuitBreakerConfig(),
		resilience.DefaultRetryConfig(),
	)
}

// NewSummarizerWithResilience позволяет задать собственные настройки отказоустойчивости.
// Ошибки запроса (4xx кроме 429) не повторяются и не размыкают цепь при любых настройках.
func NewSummarizerWithResilience(cfg Config, cbConfig resilience.CircuitBreakerConfig, retryConfig resilience.RetryConfig) *Summarizer {
	res := resilience.NewServiceResilienceWithConfig(
		serviceName,
		onlyServerSide(cbConfig),
		retryServerSide(retryConfig),
	)

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Summarizer{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      model,
		converter:  markdown.NewConverter(),
		resilience: res,
	}
}

// Summarize возвращает краткое изложение markdown-текста.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", "Summarizer.Summarize"))

	plain := s.converter.PlainText(text)
	if plain == "" {
		return "", fmt.Errorf("%w: %s", entities.ErrSummarization, ErrMsgEmptyInput)
	}

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptTemplate, plain),
			},
		},
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
	}

	log.Debug(ctx, logSummarizing, zap.String("model", s.model), zap.Int("chars", len(plain)))

	resp, err := resilience.Execute(ctx, s.resilience, "CreateChatCompletion",
		func() (openai.ChatCompletionResponse, error) {
			return s.client.CreateChatCompletion(ctx, req)
		})
	if err != nil {
		log.Error(ctx, ErrMsgRequest, zap.Error(err))
		return "", fmt.Errorf("%w: %s: %w", entities.ErrSummarization, ErrMsgRequest, err)
	}

	var summary string
	if len(resp.Choices) > 0 {
		summary = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	if summary == "" {
		log.Warn(ctx, ErrMsgEmptyCompletion)
		return "", fmt.Errorf("%w: %s", entities.ErrSummarization, ErrMsgEmptyCompletion)
	}

	log.Debug(ctx, logSummarized, zap.Int("chars", len(summary)))
	return summary, nil
}

// Disabled используется, когда ключ API не задан.
type Disabled struct{}

var _ services.Summarizer = Disabled{}

// Summarize всегда возвращает entities.ErrSummarizationDisabled.
func (Disabled) Summarize(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: %w", entities.ErrSummarization, entities.ErrSummarizationDisabled)
}

func onlyServerSide(cfg resilience.CircuitBreakerConfig) resilience.CircuitBreakerConfig {
	isFailure := cfg.IsFailure
	cfg.IsFailure = func(err error) bool {
		if !isServerSide(err) {
			return false
		}
		return isFailure == nil || isFailure(err)
	}
	return cfg
}

func retryServerSide(cfg resilience.RetryConfig) resilience.RetryConfig {
	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = resilience.DefaultShouldRetry
	}
	cfg.ShouldRetry = func(err error) bool {
		return isServerSide(err) && shouldRetry(err)
	}
	return cfg
}

// isServerSide отличает сбои сервиса от ошибок запроса: 4xx кроме 429 не повторяются.
func isServerSide(err error) bool {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return false
	}
	status := statusCode(err)
	if status == 0 || status == http.StatusTooManyRequests {
		return true
	}
	return status >= http.StatusInternalServerError
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
