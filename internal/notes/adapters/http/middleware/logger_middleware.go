package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"yanote/pkg/logger"
)

const (
	LogRequestStarted   = "request started"
	LogRequestCompleted = "request completed"
	LogRequestFailed    = "request failed"

	LogErrorHandlerFailed = "error handler failed"
)

// NewLoggerMiddleware кладет в контекст запроса логгер и идентификатор запроса и логирует запрос.
// Идентификатор берется из заголовка X-Request-ID или генерируется.
// Ошибки обработчиков сразу передаются обработчику ошибок приложения, в журнал пишется итоговый статус.
// Уровень ERROR только для ответов 5xx.
func NewLoggerMiddleware(base *logger.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(HeaderRequestID)
		requestCtx := logger.NewRequestIDContext(c.Context(), requestID)
		if base != nil {
			requestCtx = logger.NewContext(requestCtx, base)
		}
		setContext(c, requestCtx)

		if id, ok := logger.GetRequestID(requestCtx); ok {
			c.Set(HeaderRequestID, id)
		}

		log := logger.Log(requestCtx).With(
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.String("ip", c.IP()),
		)
		log.Debug(requestCtx, LogRequestStarted)

		err := c.Next()
		if err != nil {
			// Статус ответа известен только после обработчика ошибок приложения.
			if handleErr := c.App().Config().ErrorHandler(c, err); handleErr != nil {
				log.Error(requestCtx, LogErrorHandlerFailed, zap.Error(handleErr))
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		logFields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}

		switch {
		case err == nil:
			log.Info(requestCtx, LogRequestCompleted, logFields...)
		case status >= fiber.StatusInternalServerError:
			log.Error(requestCtx, LogRequestFailed, append(logFields, zap.Error(err))...)
		default:
			log.Info(requestCtx, LogRequestCompleted, append(logFields, zap.String("reason", err.Error()))...)
		}
		return nil
	}
}
