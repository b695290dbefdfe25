// Package app implements application business logic for the memos service.
package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"memoboard/internal/memos/domain/entities"
	"memoboard/internal/memos/domain/view"
	"memoboard/internal/memos/ports/services"
	"memoboard/pkg/logger"
)

// MemoGateway - операции шлюза, которыми пользуются сценарии.
type MemoGateway interface {
	StorageKind() StoreKind
	List(ctx context.Context) ([]*entities.Memo, error)
	Get(ctx context.Context, memoID string) (*entities.Memo, error)
	Create(ctx context.Context, draft entities.Draft) (*entities.Memo, error)
	Update(ctx context.Context, memoID string, draft entities.Draft) (*entities.Memo, error)
	Delete(ctx context.Context, memoID string) error
	ClearAll(ctx context.Context) error
	AttachSummary(ctx context.Context, memoID, summary string) error
	Search(ctx context.Context, query string) ([]*entities.Memo, error)
	ListByCategory(ctx context.Context, category string) ([]*entities.Memo, error)
}

var _ MemoGateway = (*Gateway)(nil)

// Сообщения сценариев.
const (
	LogSummaryNotSaved = "summary generated but not saved"
	LogSummaryFailed   = "summary generation failed"
	LogMemosCleared    = "all memos cleared"
)

// ListResult - видимые заметки со статистикой и видом хранилища.
type ListResult struct {
	view.View
	Storage StoreKind `json:"storage"`
}

// SummaryResult - итог суммаризации заметки. Если запись не удалась,
// текст все равно возвращается, а причина лежит в SaveErr.
type SummaryResult struct {
	Summary string
	Saved   bool
	SaveErr error
}

// CategoryOption - категория с отображаемым именем.
type CategoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// MemoUseCase проверяет черновики до обращения к шлюзу и управляет суммаризацией.
type MemoUseCase struct {
	gateway    MemoGateway
	summarizer services.Summarizer
}

// NewMemoUseCase создает новый экземпляр MemoUseCase.
func NewMemoUseCase(gateway MemoGateway, summarizer services.Summarizer) *MemoUseCase {
	return &MemoUseCase{
		gateway:    gateway,
		summarizer: summarizer,
	}
}

// StorageKind возвращает вид хранилища.
func (uc *MemoUseCase) StorageKind() StoreKind {
	return uc.gateway.StorageKind()
}

// List загружает все заметки и вычисляет видимое подмножество.
func (uc *MemoUseCase) List(ctx context.Context, query, category string) (*ListResult, error) {
	memos, err := uc.gateway.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}

	return &ListResult{
		View:    view.Derive(memos, query, category),
		Storage: uc.gateway.StorageKind(),
	}, nil
}

// Get возвращает заметку.
func (uc *MemoUseCase) Get(ctx context.Context, memoID string) (*entities.Memo, error) {
	memo, err := uc.gateway.Get(ctx, memoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get memo: %w", err)
	}
	return memo, nil
}

// Create проверяет и нормализует черновик, затем сохраняет его.
func (uc *MemoUseCase) Create(ctx context.Context, draft entities.Draft) (*entities.Memo, error) {
	if err := entities.ValidateForSave(draft); err != nil {
		return nil, err
	}

	memo, err := uc.gateway.Create(ctx, draft.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to create memo: %w", err)
	}
	return memo, nil
}

// Update проверяет и нормализует черновик, затем перезаписывает заметку.
func (uc *MemoUseCase) Update(ctx context.Context, memoID string, draft entities.Draft) (*entities.Memo, error) {
	if err := entities.ValidateForSave(draft); err != nil {
		return nil, err
	}

	memo, err := uc.gateway.Update(ctx, memoID, draft.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to update memo: %w", err)
	}
	return memo, nil
}

// Delete удаляет заметку.
func (uc *MemoUseCase) Delete(ctx context.Context, memoID string) error {
	if err := uc.gateway.Delete(ctx, memoID); err != nil {
		return fmt.Errorf("failed to delete memo: %w", err)
	}
	return nil
}

// ClearAll удаляет все заметки. Подтверждение - забота вызывающего.
func (uc *MemoUseCase) ClearAll(ctx context.Context) error {
	if err := uc.gateway.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear memos: %w", err)
	}
	logger.Log(ctx).Warn(ctx, LogMemosCleared, zap.String("storage", string(uc.gateway.StorageKind())))
	return nil
}

// Search ищет заметки на стороне хранилища.
func (uc *MemoUseCase) Search(ctx context.Context, query string) ([]*entities.Memo, error) {
	memos, err := uc.gateway.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search memos: %w", err)
	}
	return memos, nil
}

// ListByCategory возвращает заметки одной категории.
func (uc *MemoUseCase) ListByCategory(ctx context.Context, category string) ([]*entities.Memo, error) {
	memos, err := uc.gateway.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list memos by category: %w", err)
	}
	return memos, nil
}

// AttachSummary сохраняет готовый текст суммаризации.
func (uc *MemoUseCase) AttachSummary(ctx context.Context, memoID, summary string) error {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return &entities.ValidationError{Fields: []string{"summary"}}
	}
	if err := uc.gateway.AttachSummary(ctx, memoID, summary); err != nil {
		return fmt.Errorf("failed to attach summary: %w", err)
	}
	return nil
}

// SummarizeMemo строит краткое изложение заметки и сохраняет его.
// Ошибка записи не теряет текст: он возвращается с Saved=false.
func (uc *MemoUseCase) SummarizeMemo(ctx context.Context, memoID string) (*SummaryResult, error) {
	log := logger.Log(ctx).With(zap.String("method", "MemoUseCase.SummarizeMemo"), zap.String("memoID", memoID))

	memo, err := uc.gateway.Get(ctx, memoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get memo: %w", err)
	}

	summary, err := uc.summarizer.Summarize(ctx, memo.Content)
	if err != nil {
		log.Warn(ctx, LogSummaryFailed, zap.Error(err))
		return nil, err
	}

	if err := uc.gateway.AttachSummary(ctx, memoID, summary); err != nil {
		log.Warn(ctx, LogSummaryNotSaved, zap.Error(err))
		return &SummaryResult{Summary: summary, SaveErr: err}, nil
	}

	return &SummaryResult{Summary: summary, Saved: true}, nil
}

// SummarizeText суммаризирует произвольный текст без сохранения.
func (uc *MemoUseCase) SummarizeText(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", &entities.ValidationError{Fields: []string{"content"}}
	}
	return uc.summarizer.Summarize(ctx, content)
}

// Categories возвращает перечисление категорий в порядке отображения.
func (uc *MemoUseCase) Categories() []CategoryOption {
	categories := entities.Categories()
	out := make([]CategoryOption, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryOption{Value: string(c), Label: entities.CategoryLabel(string(c))})
	}
	return out
}
