// Package http содержит компоненты HTTP сервера заметок.
package http

import (
	"github.com/gofiber/fiber/v3"

	"memoboard/internal/memos/adapters/http/memos"
	"memoboard/internal/memos/adapters/http/middleware"
)

// ErrRouteNotFound - ответ для неизвестных маршрутов.
const ErrRouteNotFound = "route not found"

// NewApp создает fiber-приложение с настроенными маршрутами.
func NewApp(cfg fiber.Config, service memos.Service) *fiber.App {
	app := fiber.New(cfg)
	SetupRouter(app, service)
	return app
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, service memos.Service) {
	handler := memos.NewHandler(service)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "storage": service.StorageKind()})
	})

	// Суммаризация произвольного текста вне версии API.
	app.Post("/api/summarize", handler.SummarizeText)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/categories", handler.ListCategories)

	memoRoutes := apiV1.Group("/memos")
	memoRoutes.Get("/", handler.ListMemos)
	memoRoutes.Post("/", handler.CreateMemo)
	memoRoutes.Get("/:memo_id", handler.GetMemo)
	memoRoutes.Put("/:memo_id", handler.ReplaceMemo)
	memoRoutes.Patch("/:memo_id", handler.PatchMemo)
	memoRoutes.Delete("/:memo_id", handler.DeleteMemo)
	memoRoutes.Put("/:memo_id/summary", handler.AttachSummary)
	memoRoutes.Post("/:memo_id/summary", handler.SummarizeMemo)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": ErrRouteNotFound,
		})
	})
}
