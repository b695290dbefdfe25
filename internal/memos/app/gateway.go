package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"memoboard/internal/memos/domain/entities"
	"memoboard/internal/memos/ports/repositories"
	"memoboard/pkg/logger"
)

// StoreKind - вид хранилища, выбранный при запуске.
type StoreKind string

// Виды хранилищ.
const (
	StoreRemote StoreKind = "postgres"
	StoreLocal  StoreKind = "local"
)

// StoreOpener открывает хранилище выбранного вида.
type StoreOpener func(ctx context.Context) (repositories.Store, error)

// Сообщения шлюза.
const (
	ErrMsgOpenStore = "failed to open memo store"

	LogStoreOpening = "opening memo store"
	LogStoreOpened  = "memo store opened"
	LogStoreClosing = "closing memo store"
)

// Gateway дает единый набор операций над ровно одним хранилищем.
// Вид хранилища фиксируется при создании, само хранилище открывается при первом обращении.
// Неудачное открытие повторяется при следующем вызове для того же вида.
type Gateway struct {
	kind StoreKind
	open StoreOpener
	now  func() time.Time

	mu    sync.Mutex
	store repositories.Store
}

// GatewayOption настраивает Gateway.
type GatewayOption func(*Gateway)

// WithGatewayClock задает источник времени для created_at и updated_at.
func WithGatewayClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) { g.now = now }
}

// NewGateway создает шлюз. Хранилище не открывается до первой операции.
func NewGateway(kind StoreKind, open StoreOpener, opts ...GatewayOption) *Gateway {
	g := &Gateway{kind: kind, open: open, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// StorageKind возвращает вид хранилища. Значение не меняется за время жизни процесса.
func (g *Gateway) StorageKind() StoreKind {
	return g.kind
}

// List возвращает все заметки, новые первыми.
func (g *Gateway) List(ctx context.Context) ([]*entities.Memo, error) {
	store, err := g.resolve(ctx)
	if err != nil {
		return nil, err
	}
	memos, err := store.List(ctx)
	return memos, persistence(err)
}

// Get возвращает заметку по идентификатору.
func (g *Gateway) Get(ctx context.Context, memoID string) (*entities.Memo, error) {
	store, err := g.resolve(ctx)
	if err != nil {
		return nil, err
	}
	memo, err := store.Get(ctx, memoID)
	return memo, persistence(err)
}

// Create сохраняет новую заметку с created_at = updated_at = now.
func (g *Gateway) Create(ctx context.Context, draft entities.Draft) (*entities.Memo, error) {
	store, err := g.resolve(ctx)
	if err != nil {
		return nil, err
	}
	memo, err := store.Create(ctx, entities.NewMemo(draft, g.now()))
	return memo, persistence(err)
}

// Update заменяет title, content, category и tags и обновляет updated_at.
func (g *Gateway) Update(ctx context.Context, memoID string, draft entities.Draft) (*entities.Memo, error) {
	store, err := g.resolve(ctx)
	if err != nil {
		return nil, err
	}

	memo, err := store.Get(ctx, memoID)
	if err != nil {
		return nil, persistence(err)
	}
	memo.Apply(draft, g.now())

	updated, err := store.Update(ctx, memo)
	return updated, persistence(err)
}

// Delete удаляет заметку. Отсутствующий id - entities.ErrNotFound.
func (g *Gateway) Delete(ctx context.Context, memoID string) error {
	store, err := g.resolve(ctx)
	if err != nil {
		return err
	}
	return persistence(store.Delete(ctx, memoID))
}

// ClearAll удаляет все заметки.
func (g *Gateway) ClearAll(ctx context.Context) error {
	store, err := g.resolve(ctx)
	if err != nil {
		return err
	}
	return persistence(store.Clear(ctx))
}

// AttachSummary записывает ai_summary. updated_at не меняется.
func (g *Gateway) AttachSummary(ctx context.Context, memoID, summary string) error {
	store, err := g.resolve(ctx)
	if err != nil {
		return err
	}
	return persistence(store.AttachSummary(ctx, memoID, summary))
}

// Search выполняет поиск на стороне хранилища.
func (g *Gateway) Search(ctx context.Context, query string) ([]*entities.Memo, error) {
	store, err := g.resolve(ctx)
	if err != nil {
		return nil, err
	}
	memos, err := store.Search(ctx, query)
	return memos, persistence(err)
}

// ListByCategory возвращает заметки одной категории.
func (g *Gateway) ListByCategory(ctx context.Context, category string) ([]*entities.Memo, error) {
	store, err := g.resolve(ctx)
	if err != nil {
		return nil, err
	}
	memos, err := store.ListByCategory(ctx, category)
	return memos, persistence(err)
}

// Close закрывает хранилище, если оно было открыто.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.store == nil {
		return nil
	}
	logger.Log(ctx).Info(ctx, LogStoreClosing, zap.String("storage", string(g.kind)))
	err := g.store.Close(ctx)
	g.store = nil
	return err
}

func (g *Gateway) resolve(ctx context.Context) (repositories.Store, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.store != nil {
		return g.store, nil
	}

	log := logger.Log(ctx).With(zap.String("storage", string(g.kind)))
	log.Info(ctx, LogStoreOpening)

	store, err := g.open(ctx)
	if err != nil {
		log.Error(ctx, ErrMsgOpenStore, zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrPersistence, ErrMsgOpenStore, err)
	}

	log.Info(ctx, LogStoreOpened)
	g.store = store
	return store, nil
}

// persistence оборачивает ошибки хранилища в ErrPersistence, оставляя ErrNotFound как есть.
func persistence(err error) error {
	if err == nil || errors.Is(err, entities.ErrNotFound) || errors.Is(err, entities.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", entities.ErrPersistence, err)
}
