package entities

import (
	"errors"
	"strings"
)

// Ошибки уровня домена. Сравниваются через errors.Is.
var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("memo not found")
	ErrPersistence           = errors.New("persistence failure")
	ErrSummarization         = errors.New("summarization failed")
	ErrSummarizationDisabled = errors.New("summarization is not configured")
)

// ValidationError описывает поля черновика, не прошедшие проверку.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ") + " must not be empty"
}

// Is позволяет сопоставлять ValidationError с ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsSummarizationError сообщает, относится ли ошибка к суммаризации.
func IsSummarizationError(err error) bool {
	return errors.Is(err, ErrSummarization) || errors.Is(err, ErrSummarizationDisabled)
}
