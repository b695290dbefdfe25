// Package dto содержит структуры запросов и ответов HTTP API заметок.
package dto

import "memoboard/internal/memos/domain/entities"

// MemoRequest содержит данные для создания или полной замены заметки.
type MemoRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// ToDraft переводит запрос в черновик.
func (r *MemoRequest) ToDraft() entities.Draft {
	return entities.Draft{
		Title:    r.Title,
		Content:  r.Content,
		Category: r.Category,
		Tags:     r.Tags,
	}
}

// PatchMemoRequest содержит данные для частичного обновления заметки.
// Отсутствующие поля берутся из текущей версии.
type PatchMemoRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
}

// Merge накладывает заданные поля на текущую заметку.
func (r *PatchMemoRequest) Merge(current *entities.Memo) entities.Draft {
	draft := entities.Draft{
		Title:    current.Title,
		Content:  current.Content,
		Category: current.Category,
		Tags:     current.Tags,
	}
	if r.Title != nil {
		draft.Title = *r.Title
	}
	if r.Content != nil {
		draft.Content = *r.Content
	}
	if r.Category != nil {
		draft.Category = *r.Category
	}
	if r.Tags != nil {
		draft.Tags = *r.Tags
	}
	return draft
}

// AttachSummaryRequest - тело PUT /memos/:memo_id/summary.
type AttachSummaryRequest struct {
	Summary string `json:"summary"`
}

// MemoSummaryResponse - ответ POST /memos/:memo_id/summary.
type MemoSummaryResponse struct {
	Summary string `json:"summary"`
	Saved   bool   `json:"saved"`
	Error   string `json:"error,omitempty"`
}

// SummarizeRequest - тело POST /api/summarize.
type SummarizeRequest struct {
	Content string `json:"content"`
}

// SummarizeResponse - ответ POST /api/summarize.
type SummarizeResponse struct {
	Summary string `json:"summary"`
	Success bool   `json:"success"`
}

// ErrorResponse - тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}
