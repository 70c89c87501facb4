// Package users содержит HTTP-обработчики входа, выхода и регистрации.
package users

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"yanote/internal/notes/adapters/http/middleware"
	"yanote/internal/notes/adapters/http/routes"
	"yanote/internal/notes/adapters/http/views"
	domain "yanote/internal/notes/domain/services"
	"yanote/internal/notes/ports/api"
	"yanote/pkg/logger"
)

const (
	LogHandlerLogin  = "handling login request"
	LogHandlerLogout = "handling logout request"
	LogHandlerSignup = "handling signup request"
	LogFormRejected  = "user form rejected"
)

// Handler обработчик страниц учетных записей.
type Handler struct {
	auth   api.AuthUseCase
	cookie middleware.SessionCookie
}

// NewHandler создает новый экземпляр обработчика учетных записей.
func NewHandler(auth api.AuthUseCase, cookie middleware.SessionCookie) *Handler {
	return &Handler{auth: auth, cookie: cookie}
}

// LoginForm страница входа. Параметр next сохраняется в форме.
func (h *Handler) LoginForm(c fiber.Ctx) error {
	next := routes.SafeNext(c.Query(routes.NextParam))
	return renderLogin(c, domain.LoginForm{}, nil, next)
}

// Login проверяет учетные данные, выставляет cookie и переходит на next или на главную.
func (h *Handler) Login(c fiber.Ctx) error {
	ctx := middleware.Context(c)
	logger.Log(ctx).Debug(ctx, LogHandlerLogin)

	next := routes.SafeNext(c.FormValue(routes.NextParam))
	if next == "" {
		next = routes.SafeNext(c.Query(routes.NextParam))
	}

	form := domain.LoginForm{Username: c.FormValue("username"), Password: c.FormValue("password")}
	session, err := h.auth.Login(ctx, form)
	if err != nil {
		if verr := asValidationError(err); verr != nil {
			logger.Log(ctx).Debug(ctx, LogFormRejected, zap.Error(err))
			form.Password = ""
			return renderLogin(c, form, verr, next)
		}
		return err
	}

	h.cookie.Set(c, session.Token, session.Identity.ExpiresAt)
	if next == "" {
		next = routes.URL(routes.Home)
	}
	return redirect(c, next)
}

// Logout отзывает текущую сессию и показывает страницу выхода. Доступен всем.
func (h *Handler) Logout(c fiber.Ctx) error {
	ctx := middleware.Context(c)
	logger.Log(ctx).Debug(ctx, LogHandlerLogout)

	err := h.auth.Logout(ctx, middleware.RequestContext(c))
	h.cookie.Clear(c)
	middleware.ResetIdentity(c)
	if err != nil {
		return err
	}
	return views.Render(c, fiber.StatusOK, views.Logout, fiber.Map{"Title": "Выход"})
}

// SignupForm страница регистрации.
func (h *Handler) SignupForm(c fiber.Ctx) error {
	return renderSignup(c, domain.SignupForm{}, nil)
}

// Signup создает учетную запись и отправляет на страницу входа.
func (h *Handler) Signup(c fiber.Ctx) error {
	ctx := middleware.Context(c)
	logger.Log(ctx).Debug(ctx, LogHandlerSignup)

	form := domain.SignupForm{
		Username:  c.FormValue("username"),
		Password1: c.FormValue("password1"),
		Password2: c.FormValue("password2"),
	}
	if _, err := h.auth.SignUp(ctx, form); err != nil {
		if verr := asValidationError(err); verr != nil {
			logger.Log(ctx).Debug(ctx, LogFormRejected, zap.Error(err))
			return renderSignup(c, domain.SignupForm{Username: form.Username}, verr)
		}
		return err
	}
	return redirect(c, routes.URL(routes.Login))
}

func renderLogin(c fiber.Ctx, form domain.LoginForm, verr *domain.ValidationError, next string) error {
	return views.Render(c, fiber.StatusOK, views.Login, fiber.Map{
		"Title":  "Вход",
		"Form":   form,
		"Errors": fieldErrors(verr),
		"Next":   next,
	})
}

func renderSignup(c fiber.Ctx, form domain.SignupForm, verr *domain.ValidationError) error {
	return views.Render(c, fiber.StatusOK, views.Signup, fiber.Map{
		"Title":  "Регистрация",
		"Form":   form,
		"Errors": fieldErrors(verr),
	})
}

func fieldErrors(verr *domain.ValidationError) map[string][]string {
	if verr == nil {
		return map[string][]string{}
	}
	return verr.Fields
}

func asValidationError(err error) *domain.ValidationError {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return nil
}

func redirect(c fiber.Ctx, to string) error {
	if err := c.Redirect().Status(fiber.StatusFound).To(to); err != nil {
		return fmt.Errorf("redirect to %s: %w", to, err)
	}
	return nil
}
