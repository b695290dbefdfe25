// Package view вычисляет видимое подмножество заметок и статистику по ним.
package view

import (
	"strings"

	"memoboard/internal/memos/domain/entities"
)

// Stats - агрегированные счетчики.
type Stats struct {
	Total      int            `json:"total"`
	Filtered   int            `json:"filtered"`
	ByCategory map[string]int `json:"by_category"`
}

// View - результат вычисления.
type View struct {
	Visible []*entities.Memo `json:"memos"`
	Stats   Stats            `json:"stats"`
}

// Derive фильтрует заметки по категории и поисковой строке, сохраняя входной порядок.
// category "all" или пустая строка не ограничивает выборку. Входной срез не изменяется.
func Derive(memos []*entities.Memo, query, category string) View {
	visible := make([]*entities.Memo, 0, len(memos))
	for _, memo := range memos {
		if MatchesCategory(memo, category) && MatchesQuery(memo, query) {
			visible = append(visible, memo)
		}
	}

	byCategory := make(map[string]int)
	for _, memo := range memos {
		byCategory[memo.Category]++
	}

	return View{
		Visible: visible,
		Stats: Stats{
			Total:      len(memos),
			Filtered:   len(visible),
			ByCategory: byCategory,
		},
	}
}

// MatchesCategory проверяет фильтр по категории.
func MatchesCategory(memo *entities.Memo, category string) bool {
	if category == "" || category == entities.CategoryAll {
		return true
	}
	return memo.Category == category
}

// MatchesQuery проверяет поисковую строку: подстрока заголовка или содержимого
// либо точное совпадение с тегом, без учета регистра. Пустой запрос пропускает все.
func MatchesQuery(memo *entities.Memo, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(memo.Title), q) ||
		strings.Contains(strings.ToLower(memo.Content), q) {
		return true
	}
	for _, tag := range memo.Tags {
		if strings.EqualFold(strings.TrimSpace(tag), q) {
			return true
		}
	}
	return false
}
