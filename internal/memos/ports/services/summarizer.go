// Package services defines external service interfaces for the memos service.
package services

import "context"

// Summarizer строит краткое изложение текста заметки.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
