// Package http содержит HTTP сервер сервиса заметок.
package http

import (
	"errors"
	"fmt"
	nethttp "net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"yanote/internal/notes/adapters/http/middleware"
	"yanote/internal/notes/adapters/http/notes"
	"yanote/internal/notes/adapters/http/routes"
	"yanote/internal/notes/adapters/http/users"
	"yanote/internal/notes/adapters/http/views"
	"yanote/internal/notes/app"
	"yanote/internal/notes/ports/api"
	"yanote/pkg/logger"
)

const (
	LogUnhandledError = "unhandled request error"
	LogRenderFailed   = "failed to render error page"
)

// Dependencies сценарии и настройки, нужные маршрутам.
type Dependencies struct {
	Notes  api.NoteUseCase
	Auth   api.AuthUseCase
	Cookie middleware.SessionCookie
	Logger *logger.Logger
}

type route struct {
	name    string
	method  string
	handler fiber.Handler
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(router *fiber.App, deps Dependencies) error {
	notesHandler := notes.NewHandler(deps.Notes)
	usersHandler := users.NewHandler(deps.Auth, deps.Cookie)

	router.Use(middleware.NewLoggerMiddleware(deps.Logger))
	router.Use(middleware.NewRecoveryMiddleware())

	if err := register(router, route{routes.Health, fiber.MethodGet, notesHandler.Health}); err != nil {
		return err
	}

	router.Use(middleware.NewIdentityMiddleware(deps.Auth, deps.Cookie))

	return register(router,
		route{routes.Home, fiber.MethodGet, notesHandler.Home},
		route{routes.List, fiber.MethodGet, notesHandler.List},
		route{routes.Add, fiber.MethodGet, notesHandler.AddForm},
		route{routes.Add, fiber.MethodPost, notesHandler.Add},
		route{routes.Detail, fiber.MethodGet, notesHandler.Detail},
		route{routes.Edit, fiber.MethodGet, notesHandler.EditForm},
		route{routes.Edit, fiber.MethodPost, notesHandler.Edit},
		route{routes.Delete, fiber.MethodGet, notesHandler.DeleteConfirm},
		route{routes.Delete, fiber.MethodPost, notesHandler.Delete},
		route{routes.Delete, fiber.MethodDelete, notesHandler.Delete},
		route{routes.Success, fiber.MethodGet, notesHandler.Success},
		route{routes.Login, fiber.MethodGet, usersHandler.LoginForm},
		route{routes.Login, fiber.MethodPost, usersHandler.Login},
		route{routes.Logout, fiber.MethodGet, usersHandler.Logout},
		route{routes.Logout, fiber.MethodPost, usersHandler.Logout},
		route{routes.Signup, fiber.MethodGet, usersHandler.SignupForm},
		route{routes.Signup, fiber.MethodPost, usersHandler.Signup},
	)
}

func register(router *fiber.App, table ...route) error {
	for _, r := range table {
		pattern, err := routes.Pattern(r.name)
		if err != nil {
			return fmt.Errorf("register %s: %w", r.name, err)
		}
		router.Add([]string{r.method}, pattern, r.handler)
	}
	return nil
}

// ErrorHandler переводит ошибки сценариев в ответы: вход, 404 или 500.
func ErrorHandler(c fiber.Ctx, err error) error {
	ctx := middleware.Context(c)

	switch {
	case errors.Is(err, app.ErrAuthenticationRequired):
		return c.Redirect().Status(fiber.StatusFound).To(routes.LoginRedirect(c.OriginalURL()))
	case errors.Is(err, app.ErrNotFound):
		return renderError(c, fiber.StatusNotFound, views.NotFound)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusNotFound {
			return renderError(c, fiber.StatusNotFound, views.NotFound)
		}
		return c.Status(fiberErr.Code).SendString(fiberErr.Message)
	}

	logger.Log(ctx).Error(ctx, LogUnhandledError, zap.String("path", c.Path()), zap.Error(err))
	return renderError(c, fiber.StatusInternalServerError, views.ServerError)
}

func renderError(c fiber.Ctx, status int, page string) error {
	if err := views.Render(c, status, page, fiber.Map{}); err != nil {
		ctx := middleware.Context(c)
		logger.Log(ctx).Error(ctx, LogRenderFailed, zap.Error(err))
		return c.Status(status).SendString(nethttp.StatusText(status))
	}
	return nil
}
