// Package postgres provides the PostgreSQL implementation of the memo repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"memoboard/internal/memos/domain/entities"
	"memoboard/internal/memos/ports/repositories"
	"memoboard/pkg/logger"
)

// Сообщения об ошибках репозитория.
const (
	ErrMsgListMemos     = "failed to list memos"
	ErrMsgGetMemo       = "failed to get memo"
	ErrMsgCreateMemo    = "failed to create memo"
	ErrMsgUpdateMemo    = "failed to update memo"
	ErrMsgDeleteMemo    = "failed to delete memo"
	ErrMsgClearMemos    = "failed to clear memos"
	ErrMsgAttachSummary = "failed to attach summary"
	ErrMsgSearchMemos   = "failed to search memos"
	ErrMsgScanMemo      = "failed to scan memo"
	ErrMsgIterateRows   = "error iterating rows"
)

const (
	logListingMemos    = "listing memos"
	logGettingMemo     = "getting memo"
	logCreatingMemo    = "creating memo"
	logMemoCreated     = "memo created"
	logUpdatingMemo    = "updating memo"
	logDeletingMemo    = "deleting memo"
	logClearingMemos   = "clearing memos"
	logMemosCleared    = "memos cleared"
	logAttachSummary   = "attaching summary"
	logSearchingMemos  = "searching memos"
	logMemoNotFound    = "memo not found"
	logMalformedMemoID = "malformed memo id"
)

const memoColumns = `id::text, title, content, category, tags, created_at, updated_at, ai_summary`

const (
	queryList = `SELECT ` + memoColumns + ` FROM memos ORDER BY created_at DESC`

	queryGet = `SELECT ` + memoColumns + ` FROM memos WHERE id = $1`

	queryInsert = `INSERT INTO memos (title, content, category, tags, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + memoColumns

	queryUpdate = `UPDATE memos SET title = $1, content = $2, category = $3, tags = $4, updated_at = $5
WHERE id = $6
RETURNING ` + memoColumns

	queryDelete = `DELETE FROM memos WHERE id = $1`

	queryClear = `DELETE FROM memos`

	queryAttachSummary = `UPDATE memos SET ai_summary = $1 WHERE id = $2`

	querySearch = `SELECT ` + memoColumns + ` FROM memos
WHERE title ILIKE $1 OR content ILIKE $1
   OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE lower(btrim(tag)) = lower($2))
ORDER BY created_at DESC`

	queryListByCategory = `SELECT ` + memoColumns + ` FROM memos WHERE category = $1 ORDER BY created_at DESC`
)

// DBTX - общий интерфейс pgxpool.Pool и pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MemoRepository реализует repositories.MemoRepository поверх таблицы memos.
type MemoRepository struct {
	db DBTX
}

var _ repositories.MemoRepository = (*MemoRepository)(nil)

// NewMemoRepository создает новый репозиторий заметок.
func NewMemoRepository(db DBTX) *MemoRepository {
	return &MemoRepository{db: db}
}

// List возвращает все заметки, новые первыми.
func (r *MemoRepository) List(ctx context.Context) ([]*entities.Memo, error) {
	log := logger.Log(ctx).With(zap.String("method", "MemoRepository.List"))
	log.Debug(ctx, logListingMemos)

	return r.queryMemos(ctx, log, ErrMsgListMemos, queryList)
}

// Get возвращает заметку по идентификатору.
func (r *MemoRepository) Get(ctx context.Context, memoID string) (*entities.Memo, error) {
	log := logger.Log(ctx).With(zap.String("method", "MemoRepository.Get"))
	log.Debug(ctx, logGettingMemo, zap.String("memoID", memoID))

	if !validID(ctx, log, memoID) {
		return nil, entities.ErrNotFound
	}

	memo, err := scanMemo(r.db.QueryRow(ctx, queryGet, memoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, logMemoNotFound, zap.String("memoID", memoID))
			return nil, entities.ErrNotFound
		}
		log.Error(ctx, ErrMsgGetMemo, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrMsgGetMemo, err)
	}

	return memo, nil
}

// Create вставляет заметку. Идентификатор генерирует база данных.
func (r *MemoRepository) Create(ctx context.Context, memo *entities.Memo) (*entities.Memo, error) {
	log := logger.Log(ctx).With(zap.String("method", "MemoRepository.Create"))
	log.Debug(ctx, logCreatingMemo, zap.String("category", memo.Category))

	created, err := scanMemo(r.db.QueryRow(ctx, queryInsert,
		memo.Title, memo.Content, memo.Category, tagsOrEmpty(memo.Tags), memo.CreatedAt, memo.UpdatedAt,
	))
	if err != nil {
		log.Error(ctx, ErrMsgCreateMemo, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateMemo, err)
	}

	log.Debug(ctx, logMemoCreated, zap.String("memoID", created.ID))
	return created, nil
}

// Update перезаписывает изменяемые поля заметки и возвращает сохраненную запись.
func (r *MemoRepository) Update(ctx context.Context, memo *entities.Memo) (*entities.Memo, error) {
	log := logger.Log(ctx).With(zap.String("method", "MemoRepository.Update"))
	log.Debug(ctx, logUpdatingMemo, zap.String("memoID", memo.ID))

	if !validID(ctx, log, memo.ID) {
		return nil, entities.ErrNotFound
	}

	updated, err := scanMemo(r.db.QueryRow(ctx, queryUpdate,
		memo.Title, memo.Content, memo.Category, tagsOrEmpty(memo.Tags), memo.UpdatedAt, memo.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, logMemoNotFound, zap.String("memoID", memo.ID))
			return nil, entities.ErrNotFound
		}
		log.Error(ctx, ErrMsgUpdateMemo, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdateMemo, err)
	}

	return updated, nil
}

// Delete удаляет заметку.
func (r *MemoRepository) Delete(ctx context.Context, memoID string) error {
	log := logger.Log(ctx).With(zap.String("method", "MemoRepository.Delete"))
	log.Debug(ctx, logDeletingMemo, zap.String("memoID", memoID))

	if !validID(ctx, log, memoID) {
		return entities.ErrNotFound
	}

	result, err := r.db.Exec(ctx, queryDelete, memoID)
	if err != nil {
		log.Error(ctx, ErrMsgDeleteMemo, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrMsgDeleteMemo, err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, logMemoNotFound, zap.String("memoID", memoID))
		return entities.ErrNotFound
	}

	return nil
}

// Clear удаляет все заметки.
func (r *MemoRepository) Clear(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String("method", "MemoRepository.Clear"))
	log.Debug(ctx, logClearingMemos)

	result, err := r.db.Exec(ctx, queryClear)
	if err != nil {
		log.Error(ctx, ErrMsgClearMemos, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrMsgClearMemos, err)
	}

	log.Info(ctx, logMemosCleared, zap.Int64("deleted", result.RowsAffected()))
	return nil
}

// AttachSummary записывает ai_summary, не трогая остальные поля.
func (r *MemoRepository) AttachSummary(ctx context.Context, memoID, summary string) error {
	log := logger.Log(ctx).With(zap.String("method", "MemoRepository.AttachSummary"))
	log.Debug(ctx, logAttachSummary, zap.String("memoID", memoID))

	if !validID(ctx, log, memoID) {
		return entities.ErrNotFound
	}

	result, err := r.db.Exec(ctx, queryAttachSummary, summary, memoID)
	if err != nil {
		log.Error(ctx, ErrMsgAttachSummary, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrMsgAttachSummary, err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, logMemoNotFound, zap.String("memoID", memoID))
		return entities.ErrNotFound
	}

	return nil
}

// Search ищет подстроку в заголовке и содержимом или точное совпадение тега.
// Пустой запрос эквивалентен List.
func (r *MemoRepository) Search(ctx context.Context, query string) ([]*entities.Memo, error) {
	log := logger.Log(ctx).With(zap.String("method", "MemoRepository.Search"))

	query = strings.TrimSpace(query)
	if query == "" {
		return r.List(ctx)
	}
	log.Debug(ctx, logSearchingMemos, zap.String("query", query))

	return r.queryMemos(ctx, log, ErrMsgSearchMemos, querySearch, likePattern(query), query)
}

// ListByCategory возвращает заметки категории. "all" и пустая строка эквивалентны List.
func (r *MemoRepository) ListByCategory(ctx context.Context, category string) ([]*entities.Memo, error) {
	log := logger.Log(ctx).With(zap.String("method", "MemoRepository.ListByCategory"))

	if category == "" || category == entities.CategoryAll {
		return r.List(ctx)
	}
	log.Debug(ctx, logListingMemos, zap.String("category", category))

	return r.queryMemos(ctx, log, ErrMsgListMemos, queryListByCategory, category)
}

func (r *MemoRepository) queryMemos(ctx context.Context, log *logger.Logger, errMsg, sql string, args ...any) ([]*entities.Memo, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		log.Error(ctx, errMsg, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	defer rows.Close()

	memos := make([]*entities.Memo, 0)
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			log.Error(ctx, ErrMsgScanMemo, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", ErrMsgScanMemo, err)
		}
		memos = append(memos, memo)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, ErrMsgIterateRows, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrMsgIterateRows, err)
	}

	return memos, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemo(row rowScanner) (*entities.Memo, error) {
	var memo entities.Memo
	err := row.Scan(
		&memo.ID, &memo.Title, &memo.Content, &memo.Category, &memo.Tags,
		&memo.CreatedAt, &memo.UpdatedAt, &memo.AISummary,
	)
	if err != nil {
		return nil, err
	}
	if memo.Tags == nil {
		memo.Tags = []string{}
	}
	return &memo, nil
}

// validID отсекает строки, которые колонка uuid все равно не примет.
func validID(ctx context.Context, log *logger.Logger, memoID string) bool {
	if _, err := uuid.Parse(memoID); err != nil {
		log.Debug(ctx, logMalformedMemoID, zap.String("memoID", memoID))
		return false
	}
	return true
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
