package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador-api/pkg/logger"
)

// requestLog devuelve el sublogger de la petición (con request_id si requestid corrió antes).
func requestLog(c *fiber.Ctx, log *logger.Logger) *logger.Logger {
	id, _ := c.Locals("requestid").(string)
	return log.Request(id)
}

// AccessLog registra una línea por petición: método, ruta, status y duración.
func AccessLog(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := requestLog(c, log).Info()
		if status >= fiber.StatusInternalServerError {
			ev = requestLog(c, log).Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("petición")
		return err
	}
}
