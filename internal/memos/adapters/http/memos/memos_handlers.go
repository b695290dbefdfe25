// Package memos содержит HTTP-обработчики для управления заметками.
package memos

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"memoboard/internal/memos/app"
	"memoboard/internal/memos/app/dto"
	"memoboard/internal/memos/domain/entities"
	"memoboard/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerListMemos     = "handling list memos request"
	LogHandlerGetMemo       = "handling get memo request"
	LogHandlerCreateMemo    = "handling create memo request"
	LogHandlerUpdateMemo    = "handling update memo request"
	LogHandlerDeleteMemo    = "handling delete memo request"
	LogHandlerAttachSummary = "handling attach summary request"
	LogHandlerSummarizeMemo = "handling summarize memo request"
	LogHandlerSummarizeText = "handling summarize text request"
	LogRequestError         = "request failed"

	ErrMsgInvalidMemoID      = "invalid memo id"
	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgMemoNotFound       = "memo not found"
	ErrMsgStorageUnavailable = "memo storage is unavailable"
	ErrMsgSummarization      = "summarization failed"
	ErrMsgInternal           = "internal server error"
	ErrMsgSendResponse       = "error sending response"
)

// ParamMemoID - имя параметра маршрута с идентификатором заметки.
const ParamMemoID = "memo_id"

// Service - сценарии, которые использует обработчик.
type Service interface {
	StorageKind() app.StoreKind
	List(ctx context.Context, query, category string) (*app.ListResult, error)
	Get(ctx context.Context, memoID string) (*entities.Memo, error)
	Create(ctx context.Context, draft entities.Draft) (*entities.Memo, error)
	Update(ctx context.Context, memoID string, draft entities.Draft) (*entities.Memo, error)
	Delete(ctx context.Context, memoID string) error
	AttachSummary(ctx context.Context, memoID, summary string) error
	SummarizeMemo(ctx context.Context, memoID string) (*app.SummaryResult, error)
	SummarizeText(ctx context.Context, content string) (string, error)
	Categories() []app.CategoryOption
}

var _ Service = (*app.MemoUseCase)(nil)

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	service Service
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListMemos возвращает видимые заметки и статистику. Параметры q и category необязательны.
func (h *Handler) ListMemos(ctx fiber.Ctx) error {
	reqCtx := ctx.Context()
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.ListMemos"))
	log.Debug(reqCtx, LogHandlerListMemos)

	result, err := h.service.List(reqCtx, ctx.Query("q"), ctx.Query("category", entities.CategoryAll))
	if err != nil {
		return h.fail(ctx, log, err, fiber.StatusInternalServerError)
	}
	return send(ctx, fiber.StatusOK, result)
}

// GetMemo возвращает заметку по идентификатору.
func (h *Handler) GetMemo(ctx fiber.Ctx) error {
	reqCtx := ctx.Context()
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.GetMemo"))
	log.Debug(reqCtx, LogHandlerGetMemo)

	memoID, ok := memoIDParam(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidMemoID)
	}

	memo, err := h.service.Get(reqCtx, memoID)
	if err != nil {
		return h.fail(ctx, log, err, fiber.StatusInternalServerError)
	}
	return send(ctx, fiber.StatusOK, memo)
}

// CreateMemo создает заметку.
func (h *Handler) CreateMemo(ctx fiber.Ctx) error {
	reqCtx := ctx.Context()
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.CreateMemo"))
	log.Debug(reqCtx, LogHandlerCreateMemo)

	var req dto.MemoRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	memo, err := h.service.Create(reqCtx, req.ToDraft())
	if err != nil {
		return h.fail(ctx, log, err, fiber.StatusInternalServerError)
	}
	return send(ctx, fiber.StatusCreated, memo)
}

// ReplaceMemo полностью заменяет изменяемые поля заметки (PUT).
func (h *Handler) ReplaceMemo(ctx fiber.Ctx) error {
	reqCtx := ctx.Context()
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.ReplaceMemo"))
	log.Debug(reqCtx, LogHandlerUpdateMemo)

	memoID, ok := memoIDParam(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidMemoID)
	}

	var req dto.MemoRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	memo, err := h.service.Update(reqCtx, memoID, req.ToDraft())
	if err != nil {
		return h.fail(ctx, log, err, fiber.StatusInternalServerError)
	}
	return send(ctx, fiber.StatusOK, memo)
}

// PatchMemo обновляет только переданные поля (PATCH).
func (h *Handler) PatchMemo(ctx fiber.Ctx) error {
	reqCtx := ctx.Context()
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.PatchMemo"))
	log.Debug(reqCtx, LogHandlerUpdateMemo)

	memoID, ok := memoIDParam(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidMemoID)
	}

	var req dto.PatchMemoRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	current, err := h.service.Get(reqCtx, memoID)
	if err != nil {
		return h.fail(ctx, log, err, fiber.StatusInternalServerError)
	}

	memo, err := h.service.Update(reqCtx, memoID, req.Merge(current))
	if err != nil {
		return h.fail(ctx, log, err, fiber.StatusInternalServerError)
	}
	return send(ctx, fiber.StatusOK, memo)
}

// DeleteMemo удаляет заметку.
func (h *Handler) DeleteMemo(ctx fiber.Ctx) error {
	reqCtx := ctx.Context()
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.DeleteMemo"))
	log.Debug(reqCtx, LogHandlerDeleteMemo)

	memoID, ok := memoIDParam(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidMemoID)
	}

	if err := h.service.Delete(reqCtx, memoID); err != nil {
		return h.fail(ctx, log, err, fiber.StatusInternalServerError)
	}
	return sendStatus(ctx, fiber.StatusNoContent)
}

// AttachSummary сохраняет готовое краткое изложение, не трогая updated_at.
func (h *Handler) AttachSummary(ctx fiber.Ctx) error {
	reqCtx := ctx.Context()
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.AttachSummary"))
	log.Debug(reqCtx, LogHandlerAttachSummary)

	memoID, ok := memoIDParam(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidMemoID)
	}

	var req dto.AttachSummaryRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	if err := h.service.AttachSummary(reqCtx, memoID, req.Summary); err != nil {
		return h.fail(ctx, log, err, fiber.StatusInternalServerError)
	}
	return sendStatus(ctx, fiber.StatusNoContent)
}

// SummarizeMemo строит краткое изложение заметки и пытается его сохранить.
// Если сохранить не удалось, текст все равно возвращается с saved=false.
func (h *Handler) SummarizeMemo(ctx fiber.Ctx) error {
	reqCtx := ctx.Context()
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.SummarizeMemo"))
	log.Debug(reqCtx, LogHandlerSummarizeMemo)

	memoID, ok := memoIDParam(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidMemoID)
	}

	result, err := h.service.SummarizeMemo(reqCtx, memoID)
	if err != nil {
		return h.fail(ctx, log, err, fiber.StatusBadGateway)
	}

	resp := dto.MemoSummaryResponse{Summary: result.Summary, Saved: result.Saved}
	if result.SaveErr != nil {
		resp.Error = result.SaveErr.Error()
	}
	return send(ctx, fiber.StatusOK, resp)
}

// SummarizeText суммаризирует произвольный текст без сохранения.
func (h *Handler) SummarizeText(ctx fiber.Ctx) error {
	reqCtx := ctx.Context()
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.SummarizeText"))
	log.Debug(reqCtx, LogHandlerSummarizeText)

	var req dto.SummarizeRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	summary, err := h.service.SummarizeText(reqCtx, req.Content)
	if err != nil {
		return h.fail(ctx, log, err, fiber.StatusInternalServerError)
	}
	return send(ctx, fiber.StatusOK, dto.SummarizeResponse{Summary: summary, Success: true})
}

// ListCategories возвращает перечисление категорий.
func (h *Handler) ListCategories(ctx fiber.Ctx) error {
	return send(ctx, fiber.StatusOK, h.service.Categories())
}

// fail логирует ошибку сценария и отвечает статусом по ее виду.
// summarizationStatus различается между маршрутами суммаризации.
func (h *Handler) fail(ctx fiber.Ctx, log *logger.Logger, err error, summarizationStatus int) error {
	status, message := StatusFor(err, summarizationStatus)
	if status >= fiber.StatusInternalServerError {
		log.Error(ctx.Context(), LogRequestError, zap.Int("status", status), zap.Error(err))
	} else {
		log.Debug(ctx.Context(), LogRequestError, zap.Int("status", status), zap.Error(err))
	}
	return sendError(ctx, status, message)
}

// StatusFor сопоставляет ошибку сценария HTTP-статусу и тексту ответа.
func StatusFor(err error, summarizationStatus int) (int, string) {
	var validationErr *entities.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Error()
	case errors.Is(err, entities.ErrValidation):
		return fiber.StatusBadRequest, entities.ErrValidation.Error()
	case errors.Is(err, entities.ErrNotFound):
		return fiber.StatusNotFound, ErrMsgMemoNotFound
	case errors.Is(err, entities.ErrSummarizationDisabled):
		return summarizationStatus, entities.ErrSummarizationDisabled.Error()
	case errors.Is(err, entities.ErrSummarization):
		return summarizationStatus, ErrMsgSummarization
	case errors.Is(err, entities.ErrPersistence):
		return fiber.StatusServiceUnavailable, ErrMsgStorageUnavailable
	default:
		return fiber.StatusInternalServerError, ErrMsgInternal
	}
}

func memoIDParam(ctx fiber.Ctx) (string, bool) {
	memoID := ctx.Params(ParamMemoID)
	return memoID, memoID != ""
}

func send(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSendResponse, err)
	}
	return nil
}

func sendStatus(ctx fiber.Ctx, status int) error {
	if err := ctx.SendStatus(status); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSendResponse, err)
	}
	return nil
}

func sendError(ctx fiber.Ctx, status int, message string) error {
	return send(ctx, status, dto.ErrorResponse{Error: message})
}
