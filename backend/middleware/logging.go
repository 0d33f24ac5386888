package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

func LoggingMiddleware(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Передаем управление следующему обработчику
		err := c.Next()

		status := c.Response().StatusCode()
		// fiber only writes the status for returned errors in its ErrorHandler, after us
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		keyvals := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
			"ip", c.IP(),
		}
		if userID, ok := c.Locals(UserIDKey).(uint); ok {
			keyvals = append(keyvals, "user_id", userID)
		}

		// Логируем информацию о запросе
		switch {
		case err != nil || status >= fiber.StatusInternalServerError:
			logger.Error("request", append(keyvals, "err", err)...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", keyvals...)
		default:
			logger.Info("request", keyvals...)
		}

		return err
	}
}
