package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/quote"
	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/pkg/logger"
)

// apiError responde JSON: ErrInvalidInput → 400, cualquier otro → 500 (y se registra).
func apiError(c *fiber.Ctx, log *logger.Logger, err error) error {
	if quote.IsClientError(err) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	requestLog(c, log).Error().Err(err).Str("path", c.Path()).Msg("error en petición")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// pageError igual que apiError pero en texto plano, para las rutas que devuelven páginas.
func pageError(c *fiber.Ctx, log *logger.Logger, err error) error {
	if quote.IsClientError(err) {
		return c.Status(fiber.StatusBadRequest).SendString("회사명을 입력하세요.")
	}
	requestLog(c, log).Error().Err(err).Str("path", c.Path()).Msg("error en petición")
	if errors.Is(err, domain.ErrExport) {
		return c.Status(fiber.StatusInternalServerError).SendString("PDF 생성에 실패했습니다.")
	}
	return c.Status(fiber.StatusInternalServerError).SendString("처리 중 오류가 발생했습니다.")
}

func sendHTML(c *fiber.Ctx, html string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}
