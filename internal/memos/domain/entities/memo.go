// Package entities defines the domain entities for the memos service.
package entities

import "time"

// Memo представляет собой заметку пользователя.
type Memo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	AISummary *string   `json:"ai_summary"`
}

// NewMemo создает заметку из черновика с одинаковыми created_at и updated_at.
// Идентификатор назначает хранилище.
func NewMemo(draft Draft, now time.Time) *Memo {
	return &Memo{
		Title:     draft.Title,
		Content:   draft.Content,
		Category:  draft.Category,
		Tags:      cloneTags(draft.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply заменяет изменяемые поля значениями из черновика и обновляет updated_at.
// id, created_at и ai_summary не меняются.
func (m *Memo) Apply(draft Draft, now time.Time) {
	m.Title = draft.Title
	m.Content = draft.Content
	m.Category = draft.Category
	m.Tags = cloneTags(draft.Tags)
	if now.Before(m.CreatedAt) {
		now = m.CreatedAt
	}
	m.UpdatedAt = now
}

// Clone возвращает глубокую копию заметки.
func (m *Memo) Clone() *Memo {
	c := *m
	c.Tags = cloneTags(m.Tags)
	if m.AISummary != nil {
		s := *m.AISummary
		c.AISummary = &s
	}
	return &c
}

// CategoryLabel возвращает отображаемое имя категории заметки.
func (m *Memo) CategoryLabel() string {
	return CategoryLabel(m.Category)
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
