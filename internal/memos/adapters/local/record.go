package local

import (
	"time"

	"memoboard/internal/memos/domain/entities"
)

// record - сериализованная форма заметки. Записываются только snake_case поля,
// camelCase читаются для совместимости со старыми данными.
type record struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Category  string     `json:"category"`
	Tags      []string   `json:"tags"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	AISummary *string    `json:"ai_summary"`

	LegacyCreatedAt *time.Time `json:"createdAt,omitempty"`
	LegacyUpdatedAt *time.Time `json:"updatedAt,omitempty"`
	LegacyAISummary *string    `json:"aiSummary,omitempty"`
}

func fromMemo(memo *entities.Memo) record {
	created, updated := memo.CreatedAt, memo.UpdatedAt
	tags := memo.Tags
	if tags == nil {
		tags = []string{}
	}
	return record{
		ID:        memo.ID,
		Title:     memo.Title,
		Content:   memo.Content,
		Category:  memo.Category,
		Tags:      tags,
		CreatedAt: &created,
		UpdatedAt: &updated,
		AISummary: memo.AISummary,
	}
}

// toMemo восстанавливает заметку. repaired сообщает, что в записи не было
// created_at или id и нормализованную форму нужно сохранить.
func (r record) toMemo(now time.Time, newID func() string) (memo *entities.Memo, repaired bool) {
	updated := firstTime(now, r.UpdatedAt, r.LegacyUpdatedAt)
	memo = &entities.Memo{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Category:  r.Category,
		Tags:      r.Tags,
		CreatedAt: firstTime(updated, r.CreatedAt, r.LegacyCreatedAt),
		UpdatedAt: updated,
		AISummary: r.AISummary,
	}
	if memo.ID == "" {
		memo.ID = newID()
		repaired = true
	}
	if !hasTime(r.CreatedAt, r.LegacyCreatedAt) {
		repaired = true
	}
	if memo.AISummary == nil {
		memo.AISummary = r.LegacyAISummary
	}
	if memo.Tags == nil {
		memo.Tags = []string{}
	}
	if memo.Category == "" {
		memo.Category = string(entities.DefaultCategory)
	}
	if memo.UpdatedAt.Before(memo.CreatedAt) {
		memo.UpdatedAt = memo.CreatedAt
	}
	return memo, repaired
}

func hasTime(candidates ...*time.Time) bool {
	for _, t := range candidates {
		if t != nil && !t.IsZero() {
			return true
		}
	}
	return false
}

func firstTime(fallback time.Time, candidates ...*time.Time) time.Time {
	for _, t := range candidates {
		if t != nil && !t.IsZero() {
			return *t
		}
	}
	return fallback
}
