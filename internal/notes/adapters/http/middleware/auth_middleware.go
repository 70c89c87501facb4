package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"yanote/internal/notes/domain/entities"
	svc "yanote/internal/notes/ports/services"
	"yanote/pkg/logger"
)

const (
	LogSessionRejected = "session cookie rejected"
	LogSessionFailed   = "failed to resolve session"
)

// IdentityResolver восстанавливает пользователя из сессионного токена.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*entities.Identity, error)
}

// SessionCookie параметры сессионной cookie.
type SessionCookie struct {
	Name   string
	Secure bool
}

// Set выставляет cookie с токеном до момента его истечения.
func (s SessionCookie) Set(c fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Clear удаляет cookie у клиента.
func (s SessionCookie) Clear(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// NewIdentityMiddleware определяет пользователя по сессионной cookie.
// Недействительная cookie удаляется, запрос продолжается как анонимный.
func NewIdentityMiddleware(resolver IdentityResolver, cookie SessionCookie) fiber.Handler {
	return func(c fiber.Ctx) error {
		requestCtx := Context(c)
		rc := entities.Anonymous()

		if token := c.Cookies(cookie.Name); token != "" {
			identity, err := resolver.ResolveIdentity(requestCtx, token)
			switch {
			case err == nil:
				rc = entities.Authenticated(identity)
				requestCtx = logger.NewContext(requestCtx, logger.Log(requestCtx).With(zap.String("user_id", identity.UserID)))
				setContext(c, requestCtx)
			case isSessionError(err):
				logger.Log(requestCtx).Debug(requestCtx, LogSessionRejected, zap.Error(err))
				cookie.Clear(c)
			default:
				logger.Log(requestCtx).Error(requestCtx, LogSessionFailed, zap.Error(err))
			}
		}

		setRequestContext(c, rc)
		return c.Next()
	}
}

func isSessionError(err error) bool {
	return errors.Is(err, svc.ErrInvalidToken) ||
		errors.Is(err, svc.ErrExpiredToken) ||
		errors.Is(err, svc.ErrRevokedToken)
}
