package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/history"
	"github.com/jhoicas/cotizador-api/internal/application/quote"
	"github.com/jhoicas/cotizador-api/pkg/logger"
)

// PageRenderer páginas HTML que no pasan por los casos de uso.
type PageRenderer interface {
	RenderForm(page dto.FormPage) (string, error)
	RenderHistory(page *dto.HistoryPage) (string, error)
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	QuoteUC   *quote.UseCase
	HistoryUC *history.UseCase
	Pages     PageRenderer
	Form      dto.FormPage
	Log       *logger.Logger
	AppName   string
}

// Router registra las rutas de la aplicación.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	app.Use(AccessLog(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.Pages, deps.Form, log)
	app.Get("/", quoteHandler.Form)
	app.Post("/generate", quoteHandler.Generate)
	app.Post("/download", quoteHandler.Download)

	historyHandler := NewHistoryHandler(deps.HistoryUC, deps.Pages, log)
	app.Get("/history", historyHandler.Page)
	app.Get("/history/export.xlsx", historyHandler.ExportXLSX)

	api := app.Group("/api")
	api.Get("/history", historyHandler.List)
}
