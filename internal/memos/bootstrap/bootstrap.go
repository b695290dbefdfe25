// Package bootstrap собирает шлюз, хранилище и суммаризатор по конфигурации.
// Используется и HTTP-сервисом, и memoctl.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"memoboard/internal/memos/adapters/kv"
	"memoboard/internal/memos/adapters/local"
	"memoboard/internal/memos/adapters/openai"
	pgadapter "memoboard/internal/memos/adapters/postgres"
	"memoboard/internal/memos/app"
	"memoboard/internal/memos/config"
	"memoboard/internal/memos/db"
	"memoboard/internal/memos/ports/repositories"
	"memoboard/internal/memos/ports/services"
	"memoboard/internal/memos/ports/storage"
	"memoboard/pkg/logger"
)

// Сообщения.
const (
	ErrOpenKeyValue = "failed to open local key-value store"

	LogSummarizerDisabled = "OPENAI_API_KEY is not set, summarization disabled"
	LogStorageSelected    = "memo storage selected"
)

// Services - собранные зависимости приложения.
type Services struct {
	Gateway *app.Gateway
	Memos   *app.MemoUseCase
}

// New собирает зависимости. Хранилище открывается лениво при первом обращении.
func New(ctx context.Context, cfg *config.Config) *Services {
	kind := StoreKind(cfg)
	logger.Log(ctx).Info(ctx, LogStorageSelected, zap.String("storage", string(kind)))

	gateway := app.NewGateway(kind, NewStoreOpener(cfg))
	return &Services{
		Gateway: gateway,
		Memos:   app.NewMemoUseCase(gateway, NewSummarizer(ctx, &cfg.Summarizer)),
	}
}

// Close освобождает хранилище.
func (s *Services) Close(ctx context.Context) error {
	return s.Gateway.Close(ctx)
}

// StoreKind выбирает вид хранилища: удаленное при заданном URL, иначе локальное.
func StoreKind(cfg *config.Config) app.StoreKind {
	if cfg.Remote.Enabled() {
		return app.StoreRemote
	}
	return app.StoreLocal
}

// NewStoreOpener возвращает функцию открытия хранилища выбранного вида.
func NewStoreOpener(cfg *config.Config) app.StoreOpener {
	if cfg.Remote.Enabled() {
		remote := cfg.Remote
		return func(ctx context.Context) (repositories.Store, error) {
			database, err := db.New(ctx, &remote)
			if err != nil {
				return nil, err
			}
			return pgadapter.NewRepositoryFactory(database.Database()).Store(), nil
		}
	}

	localCfg := cfg.Local
	return func(ctx context.Context) (repositories.Store, error) {
		store, err := OpenKeyValue(ctx, &localCfg)
		if err != nil {
			return nil, err
		}
		var opts []local.Option
		if localCfg.Key != "" {
			opts = append(opts, local.WithKey(localCfg.Key))
		}
		return local.NewMemoRepository(store, opts...), nil
	}
}

// OpenKeyValue открывает KV-хранилище по драйверу из конфигурации.
func OpenKeyValue(ctx context.Context, cfg *config.LocalConfig) (storage.KeyValueStore, error) {
	switch cfg.Driver {
	case config.LocalDriverRedis:
		store, err := kv.NewRedisStore(ctx, cfg.Redis.ClientConfig())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrOpenKeyValue, err)
		}
		return store, nil
	case config.LocalDriverSQLite, "":
		store, err := kv.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrOpenKeyValue, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%s: %s %q", ErrOpenKeyValue, config.ErrUnknownLocalDriver, cfg.Driver)
	}
}

// NewSummarizer возвращает клиента OpenAI или заглушку, если ключ не задан.
func NewSummarizer(ctx context.Context, cfg *config.SummarizerConfig) services.Summarizer {
	if !cfg.Enabled() {
		logger.Log(ctx).Warn(ctx, LogSummarizerDisabled)
		return openai.Disabled{}
	}
	return openai.NewSummarizer(openai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
}
