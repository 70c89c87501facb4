// Package views содержит HTML шаблоны страниц и помощники рендеринга.
package views

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/template/html/v2"

	"yanote/internal/notes/adapters/http/middleware"
	"yanote/internal/notes/adapters/http/routes"
)

// Имена шаблонов.
const (
	Layout       = "layouts/base"
	Home         = "home"
	NoteList     = "notes/list"
	NoteDetail   = "notes/detail"
	NoteForm     = "notes/form"
	NoteDelete   = "notes/delete"
	NoteSuccess  = "notes/success"
	Login        = "users/login"
	Logout       = "users/logout"
	Signup       = "users/signup"
	NotFound     = "errors/404"
	ServerError  = "errors/500"
	templatesDir = "templates"
)

const ErrRenderTemplate = "failed to render template"

//go:embed templates
var templates embed.FS

// NewEngine создает движок шаблонов поверх встроенных файлов.
func NewEngine() (*html.Engine, error) {
	sub, err := fs.Sub(templates, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("open templates: %w", err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("url", routes.Reverse)
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return engine, nil
}

// Render отрисовывает страницу в общем макете. В данные добавляются текущий пользователь и путь.
func Render(c fiber.Ctx, status int, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["User"] = middleware.RequestContext(c).Identity
	data["Path"] = c.Path()

	if err := c.Status(status).Render(name, data, Layout); err != nil {
		return fmt.Errorf("%s %s: %w", ErrRenderTemplate, name, err)
	}
	return nil
}
