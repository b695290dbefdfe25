// Package repositories defines repository interfaces for the memos service.
package repositories

import (
	"context"

	"memoboard/internal/memos/domain/entities"
)

// MemoRepository определяет интерфейс хранилища заметок.
// Отсутствующая запись сообщается через entities.ErrNotFound.
type MemoRepository interface {
	List(ctx context.Context) ([]*entities.Memo, error)
	Get(ctx context.Context, memoID string) (*entities.Memo, error)
	Create(ctx context.Context, memo *entities.Memo) (*entities.Memo, error)
	Update(ctx context.Context, memo *entities.Memo) (*entities.Memo, error)
	Delete(ctx context.Context, memoID string) error
	Clear(ctx context.Context) error
	AttachSummary(ctx context.Context, memoID, summary string) error
	Search(ctx context.Context, query string) ([]*entities.Memo, error)
	ListByCategory(ctx context.Context, category string) ([]*entities.Memo, error)
}

// Store - открытое хранилище вместе с освобождением ресурсов.
type Store interface {
	MemoRepository
	Close(ctx context.Context) error
}
