// Package local реализует резервное хранилище заметок: один JSON-массив под фиксированным ключом.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"memoboard/internal/memos/domain/entities"
	"memoboard/internal/memos/domain/view"
	"memoboard/internal/memos/ports/repositories"
	"memoboard/internal/memos/ports/storage"
	"memoboard/pkg/logger"
)

// DefaultKey - ключ, под которым хранится массив заметок.
const DefaultKey = "memos"

// Сообщения об ошибках.
const (
	ErrMsgLoad   = "failed to load memos"
	ErrMsgDecode = "failed to decode stored memos"
	ErrMsgEncode = "failed to encode memos"
	ErrMsgSave   = "failed to save memos"
	ErrMsgClear  = "failed to clear memos"
	ErrMsgClose  = "failed to close key-value store"
)

const (
	logMemoNotFound = "memo not found"
	logMemosSaved   = "memos saved"

	logRecordsRepaired = "legacy memo records normalized"
	logRepairFailed    = "failed to persist normalized memo records"
)

// MemoRepository хранит все заметки одной записью в KeyValueStore.
// Каждая мутация - чтение, изменение и запись всего массива под мьютексом.
type MemoRepository struct {
	mu    sync.Mutex
	store storage.KeyValueStore
	key   string
	now   func() time.Time
	newID func() string
}

var _ repositories.Store = (*MemoRepository)(nil)

// Option настраивает MemoRepository.
type Option func(*MemoRepository)

// WithKey задает ключ хранения.
func WithKey(key string) Option {
	return func(r *MemoRepository) { r.key = key }
}

// WithClock задает источник времени для записей без меток времени.
func WithClock(now func() time.Time) Option {
	return func(r *MemoRepository) { r.now = now }
}

// WithIDGenerator задает генератор идентификаторов.
func WithIDGenerator(newID func() string) Option {
	return func(r *MemoRepository) { r.newID = newID }
}

// NewMemoRepository создает локальное хранилище поверх KeyValueStore.
func NewMemoRepository(store storage.KeyValueStore, opts ...Option) *MemoRepository {
	r := &MemoRepository{
		store: store,
		key:   DefaultKey,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List возвращает все заметки, новые первыми.
func (r *MemoRepository) List(ctx context.Context) ([]*entities.Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	memos, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(memos)
	return memos, nil
}

// Get возвращает заметку по идентификатору.
func (r *MemoRepository) Get(ctx context.Context, memoID string) (*entities.Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	memos, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(memos, memoID)
	if idx < 0 {
		logger.Log(ctx).Debug(ctx, logMemoNotFound, zap.String("memoID", memoID))
		return nil, entities.ErrNotFound
	}
	return memos[idx], nil
}

// Create добавляет заметку в начало массива и назначает ей идентификатор.
func (r *MemoRepository) Create(ctx context.Context, memo *entities.Memo) (*entities.Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	memos, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	created := memo.Clone()
	created.ID = r.newID()
	if created.Tags == nil {
		created.Tags = []string{}
	}

	if err := r.save(ctx, append([]*entities.Memo{created}, memos...)); err != nil {
		return nil, err
	}
	return created.Clone(), nil
}

// Update заменяет изменяемые поля. id, created_at и ai_summary берутся из сохраненной записи.
func (r *MemoRepository) Update(ctx context.Context, memo *entities.Memo) (*entities.Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	memos, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(memos, memo.ID)
	if idx < 0 {
		logger.Log(ctx).Debug(ctx, logMemoNotFound, zap.String("memoID", memo.ID))
		return nil, entities.ErrNotFound
	}

	stored := memos[idx]
	stored.Title = memo.Title
	stored.Content = memo.Content
	stored.Category = memo.Category
	stored.Tags = memo.Clone().Tags
	stored.UpdatedAt = memo.UpdatedAt
	if stored.UpdatedAt.Before(stored.CreatedAt) {
		stored.UpdatedAt = stored.CreatedAt
	}

	if err := r.save(ctx, memos); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// Delete удаляет заметку.
func (r *MemoRepository) Delete(ctx context.Context, memoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	memos, err := r.load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(memos, memoID)
	if idx < 0 {
		logger.Log(ctx).Debug(ctx, logMemoNotFound, zap.String("memoID", memoID))
		return entities.ErrNotFound
	}

	return r.save(ctx, append(memos[:idx], memos[idx+1:]...))
}

// Clear удаляет ключ целиком.
func (r *MemoRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgClear, err)
	}
	return nil
}

// AttachSummary записывает ai_summary, не меняя updated_at.
func (r *MemoRepository) AttachSummary(ctx context.Context, memoID, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	memos, err := r.load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(memos, memoID)
	if idx < 0 {
		logger.Log(ctx).Debug(ctx, logMemoNotFound, zap.String("memoID", memoID))
		return entities.ErrNotFound
	}

	memos[idx].AISummary = &summary
	return r.save(ctx, memos)
}

// Search фильтрует заметки тем же предикатом, что и view.Derive.
func (r *MemoRepository) Search(ctx context.Context, query string) ([]*entities.Memo, error) {
	memos, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return memos, nil
	}

	out := make([]*entities.Memo, 0, len(memos))
	for _, memo := range memos {
		if view.MatchesQuery(memo, query) {
			out = append(out, memo)
		}
	}
	return out, nil
}

// ListByCategory возвращает заметки категории. "all" и пустая строка эквивалентны List.
func (r *MemoRepository) ListByCategory(ctx context.Context, category string) ([]*entities.Memo, error) {
	memos, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Memo, 0, len(memos))
	for _, memo := range memos {
		if view.MatchesCategory(memo, category) {
			out = append(out, memo)
		}
	}
	return out, nil
}

// Close закрывает KeyValueStore.
func (r *MemoRepository) Close(_ context.Context) error {
	if err := r.store.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgClose, err)
	}
	return nil
}

func (r *MemoRepository) load(ctx context.Context) ([]*entities.Memo, error) {
	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoad, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return make([]*entities.Memo, 0), nil
	}

	var records []record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		logger.Log(ctx).Error(ctx, ErrMsgDecode, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrMsgDecode, err)
	}

	now := r.now()
	memos := make([]*entities.Memo, 0, len(records))
	repaired := 0
	for _, rec := range records {
		memo, fixed := rec.toMemo(now, r.newID)
		if fixed {
			repaired++
		}
		memos = append(memos, memo)
	}

	// Записи без id или created_at сохраняются сразу, иначе каждое чтение выдавало бы новые значения.
	if repaired > 0 {
		if err := r.save(ctx, memos); err != nil {
			logger.Log(ctx).Warn(ctx, logRepairFailed, zap.Int("repaired", repaired), zap.Error(err))
		} else {
			logger.Log(ctx).Info(ctx, logRecordsRepaired, zap.Int("repaired", repaired))
		}
	}
	return memos, nil
}

func (r *MemoRepository) save(ctx context.Context, memos []*entities.Memo) error {
	records := make([]record, 0, len(memos))
	for _, memo := range memos {
		records = append(records, fromMemo(memo))
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgEncode, err)
	}
	if err := r.store.Set(ctx, r.key, string(raw)); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSave, err)
	}

	logger.Log(ctx).Debug(ctx, logMemosSaved, zap.Int("count", len(memos)))
	return nil
}

func indexOf(memos []*entities.Memo, memoID string) int {
	for i, memo := range memos {
		if memo.ID == memoID {
			return i
		}
	}
	return -1
}

func sortNewestFirst(memos []*entities.Memo) {
	sort.SliceStable(memos, func(i, j int) bool {
		return memos[i].CreatedAt.After(memos[j].CreatedAt)
	})
}
