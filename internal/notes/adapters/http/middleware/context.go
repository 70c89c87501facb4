// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"yanote/internal/notes/domain/entities"
)

const (
	localsContext        = "notes.context"
	localsRequestContext = "notes.requestContext"
)

// HeaderRequestID заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// Context возвращает контекст запроса с логгером и идентификатором запроса.
func Context(c fiber.Ctx) context.Context {
	if ctx, ok := c.Locals(localsContext).(context.Context); ok {
		return ctx
	}
	return c.Context()
}

// RequestContext возвращает личность текущего пользователя. Без identity middleware запрос анонимный.
func RequestContext(c fiber.Ctx) entities.RequestContext {
	if rc, ok := c.Locals(localsRequestContext).(entities.RequestContext); ok {
		return rc
	}
	return entities.Anonymous()
}

func setContext(c fiber.Ctx, ctx context.Context) {
	c.Locals(localsContext, ctx)
}

func setRequestContext(c fiber.Ctx, rc entities.RequestContext) {
	c.Locals(localsRequestContext, rc)
}

// ResetIdentity делает оставшуюся часть запроса анонимной.
func ResetIdentity(c fiber.Ctx) {
	setRequestContext(c, entities.Anonymous())
}
