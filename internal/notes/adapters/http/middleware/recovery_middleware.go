package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"yanote/pkg/logger"
)

// ErrPanicRecovered обработчик запроса запаниковал.
var ErrPanicRecovered = errors.New("panic recovered")

// NewRecoveryMiddleware превращает панику обработчика в ошибку. Ответ 500 формирует обработчик ошибок приложения.
func NewRecoveryMiddleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				requestCtx := Context(c)
				logger.Log(requestCtx).Error(requestCtx, "server panic",
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)
				err = fmt.Errorf("%w: %v", ErrPanicRecovered, r)
			}
		}()

		return c.Next()
	}
}
