package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/history"
	"github.com/jhoicas/cotizador-api/pkg/logger"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HistoryHandler consulta y exportación del historial de cotizaciones.
type HistoryHandler struct {
	uc    *history.UseCase
	pages PageRenderer
	log   *logger.Logger
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(uc *history.UseCase, pages PageRenderer, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{uc: uc, pages: pages, log: log}
}

// Page tabla del historial. ?filename= muestra un aviso con el archivo recién generado.
// GET /history
func (h *HistoryHandler) Page(c *fiber.Ctx) error {
	entries, err := h.uc.ListAll(c.UserContext())
	if err != nil {
		return pageError(c, h.log, err)
	}
	html, err := h.pages.RenderHistory(&dto.HistoryPage{Entries: entries, Filename: c.Query("filename")})
	if err != nil {
		return pageError(c, h.log, err)
	}
	return sendHTML(c, html)
}

// List historial completo en JSON.
// GET /api/history
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	entries, err := h.uc.ListAll(c.UserContext())
	if err != nil {
		return apiError(c, h.log, err)
	}
	return c.JSON(entries)
}

// ExportXLSX historial como libro de Excel.
// GET /history/export.xlsx
func (h *HistoryHandler) ExportXLSX(c *fiber.Ctx) error {
	data, err := h.uc.ExportXLSX(c.UserContext())
	if err != nil {
		return apiError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, xlsxMIME)
	c.Set(fiber.HeaderContentDisposition, contentDisposition("quote_history.xlsx"))
	return c.Send(data)
}
