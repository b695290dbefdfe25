package entities

import "strings"

// Draft - набор полей заметки, еще не прошедший проверку.
type Draft struct {
	Title    string
	Content  string
	Category string
	Tags     []string
}

// ValidateForSave проверяет черновик перед сохранением.
// Категория на этом уровне не проверяется.
func ValidateForSave(draft Draft) error {
	var fields []string
	if strings.TrimSpace(draft.Title) == "" {
		fields = append(fields, "title")
	}
	if strings.TrimSpace(draft.Content) == "" {
		fields = append(fields, "content")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Normalize возвращает черновик с обрезанным заголовком, категорией по умолчанию
// и тегами без пустых значений и повторов. Порядок тегов сохраняется.
func (d Draft) Normalize() Draft {
	out := Draft{
		Title:    strings.TrimSpace(d.Title),
		Content:  d.Content,
		Category: strings.TrimSpace(d.Category),
		Tags:     make([]string, 0, len(d.Tags)),
	}
	if out.Category == "" {
		out.Category = string(DefaultCategory)
	}

	seen := make(map[string]struct{}, len(d.Tags))
	for _, tag := range d.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out.Tags = append(out.Tags, tag)
	}
	return out
}
