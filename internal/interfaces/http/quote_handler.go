package http

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/quote"
	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/pkg/logger"
)

// QuoteHandler formulario, vista previa y descarga de la cotización.
type QuoteHandler struct {
	uc    *quote.UseCase
	pages PageRenderer
	form  dto.FormPage
	log   *logger.Logger
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(uc *quote.UseCase, pages PageRenderer, form dto.FormPage, log *logger.Logger) *QuoteHandler {
	return &QuoteHandler{uc: uc, pages: pages, form: form, log: log}
}

// Form página de entrada.
// GET /
func (h *QuoteHandler) Form(c *fiber.Ctx) error {
	html, err := h.pages.RenderForm(h.form)
	if err != nil {
		return pageError(c, h.log, err)
	}
	return sendHTML(c, html)
}

// Generate vista previa de la cotización. No escribe historial ni archivos.
// POST /generate
func (h *QuoteHandler) Generate(c *fiber.Ctx) error {
	var in dto.QuoteForm
	if err := c.BodyParser(&in); err != nil {
		return pageError(c, h.log, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
	}
	res, err := h.uc.Preview(c.UserContext(), in)
	if err != nil {
		return pageError(c, h.log, err)
	}
	return sendHTML(c, res.HTML)
}

// Download genera el PDF, lo archiva, registra el historial y lo devuelve como adjunto.
// POST /download
func (h *QuoteHandler) Download(c *fiber.Ctx) error {
	var in dto.QuoteForm
	if err := c.BodyParser(&in); err != nil {
		return pageError(c, h.log, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
	}
	res, err := h.uc.Download(c.UserContext(), in)
	if err != nil {
		return pageError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, contentDisposition(res.Filename))
	return c.Send(res.PDF)
}

// contentDisposition adjunto con nombre ASCII de respaldo y filename* (RFC 5987) para nombres en hangul.
func contentDisposition(name string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	if fallback == name {
		return `attachment; filename="` + name + `"`
	}
	return `attachment; filename="` + fallback + `"; filename*=UTF-8''` + url.PathEscape(name)
}
