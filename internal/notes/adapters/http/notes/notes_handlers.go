// Package notes содержит HTTP-обработчики страниц заметок.
package notes

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

// Константы сообщений для логирования.
const (
	LogHandlerList    = "handling note list request"
	LogHandlerDetail  = "handling note detail request"
	LogHandlerAdd     = "handling add note request"
	LogHandlerEdit    = "handling edit note request"
	LogHandlerDelete  = "handling delete note request"
	LogFormRejected   = "note form rejected"
	ErrMsgCountNotes  = "failed to count notes"
	ErrMsgRenderReply = "error sending response"
	paramSlug         = "slug"
)

// Handler обработчик страниц заметок.
type Handler struct {
	notes api.NoteUseCase
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(notes api.NoteUseCase) *Handler {
	return &Handler{notes: notes}
}

// Home главная страница, доступна всем.
func (h *Handler) Home(c fiber.Ctx) error {
	return views.Render(c, fiber.StatusOK, views.Home, nil)
}

// List список заметок текущего пользователя.
func (h *Handler) List(c fiber.Ctx) error {
	ctx := middleware.Context(c)
	logger.Log(ctx).Debug(ctx, LogHandlerList)

	notes, err := h.notes.ListNotes(ctx, middleware.RequestContext(c))
	if err != nil {
		return err
	}
	return views.Render(c, fiber.StatusOK, views.NoteList, fiber.Map{"Title": "Заметки", "Notes": notes})
}

// Detail страница заметки автора.
func (h *Handler) Detail(c fiber.Ctx) error {
	ctx := middleware.Context(c)
	logger.Log(ctx).Debug(ctx, LogHandlerDetail, zap.String("slug", c.Params(paramSlug)))

	note, err := h.notes.GetNote(ctx, middleware.RequestContext(c), c.Params(paramSlug), domain.OpDetail)
	if err != nil {
		return err
	}
	return views.Render(c, fiber.StatusOK, views.NoteDetail, fiber.Map{"Title": note.Title, "Note": note})
}

// AddForm пустая форма новой заметки.
func (h *Handler) AddForm(c fiber.Ctx) error {
	ctx := middleware.Context(c)
	if err := h.notes.CheckAccess(ctx, middleware.RequestContext(c), domain.OpAdd); err != nil {
		return err
	}
	return renderForm(c, fiber.StatusOK, domain.NoteForm{}, nil, false)
}

// Add создает заметку из отправленной формы.
func (h *Handler) Add(c fiber.Ctx) error {
	ctx := middleware.Context(c)
	logger.Log(ctx).Debug(ctx, LogHandlerAdd)

	form := bindNoteForm(c)
	if _, err := h.notes.CreateNote(ctx, middleware.RequestContext(c), form); err != nil {
		if verr := asValidationError(err); verr != nil {
			logger.Log(ctx).Debug(ctx, LogFormRejected, zap.Error(err))
			return renderForm(c, fiber.StatusOK, form, verr, false)
		}
		return err
	}
	return redirect(c, routes.URL(routes.Success))
}

// EditForm форма с текущими значениями заметки.
func (h *Handler) EditForm(c fiber.Ctx) error {
	ctx := middleware.Context(c)

	note, err := h.notes.GetNote(ctx, middleware.RequestContext(c), c.Params(paramSlug), domain.OpEdit)
	if err != nil {
		return err
	}
	form := domain.NoteForm{Title: note.Title, Text: note.Text, Slug: note.Slug}
	return renderForm(c, fiber.StatusOK, form, nil, true)
}

// Edit сохраняет изменения заметки.
func (h *Handler) Edit(c fiber.Ctx) error {
	ctx := middleware.Context(c)
	logger.Log(ctx).Debug(ctx, LogHandlerEdit, zap.String("slug", c.Params(paramSlug)))

	form := bindNoteForm(c)
	if _, err := h.notes.UpdateNote(ctx, middleware.RequestContext(c), c.Params(paramSlug), form); err != nil {
		if verr := asValidationError(err); verr != nil {
			logger.Log(ctx).Debug(ctx, LogFormRejected, zap.Error(err))
			return renderForm(c, fiber.StatusOK, form, verr, true)
		}
		return err
	}
	return redirect(c, routes.URL(routes.Success))
}

// DeleteConfirm страница подтверждения удаления.
func (h *Handler) DeleteConfirm(c fiber.Ctx) error {
	ctx := middleware.Context(c)

	note, err := h.notes.GetNote(ctx, middleware.RequestContext(c), c.Params(paramSlug), domain.OpDelete)
	if err != nil {
		return err
	}
	return views.Render(c, fiber.StatusOK, views.NoteDelete, fiber.Map{"Title": "Удаление", "Note": note})
}

// Delete удаляет заметку. Обслуживает POST и DELETE.
func (h *Handler) Delete(c fiber.Ctx) error {
	ctx := middleware.Context(c)
	logger.Log(ctx).Debug(ctx, LogHandlerDelete, zap.String("slug", c.Params(paramSlug)))

	if err := h.notes.DeleteNote(ctx, middleware.RequestContext(c), c.Params(paramSlug)); err != nil {
		return err
	}
	return redirect(c, routes.URL(routes.Success))
}

// Success страница после успешной операции.
func (h *Handler) Success(c fiber.Ctx) error {
	ctx := middleware.Context(c)
	if err := h.notes.CheckAccess(ctx, middleware.RequestContext(c), domain.OpSuccess); err != nil {
		return err
	}
	return views.Render(c, fiber.StatusOK, views.NoteSuccess, fiber.Map{"Title": "Успешно"})
}

// Health отвечает числом заметок, если хранилище доступно.
func (h *Handler) Health(c fiber.Ctx) error {
	ctx := middleware.Context(c)

	count, err := h.notes.CountNotes(ctx)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrMsgCountNotes, zap.Error(err))
		if err := c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"}); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgRenderReply, err)
		}
		return nil
	}

	if err := c.JSON(fiber.Map{"status": "ok", "notes": count}); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgRenderReply, err)
	}
	return nil
}

func bindNoteForm(c fiber.Ctx) domain.NoteForm {
	return domain.NoteForm{
		Title: c.FormValue("title"),
		Text:  c.FormValue("text"),
		Slug:  c.FormValue("slug"),
	}
}

func renderForm(c fiber.Ctx, status int, form domain.NoteForm, verr *domain.ValidationError, editing bool) error {
	errs := map[string][]string{}
	if verr != nil {
		errs = verr.Fields
	}
	title := "Новая заметка"
	if editing {
		title = "Редактирование"
	}
	return views.Render(c, status, views.NoteForm, fiber.Map{
		"Title":   title,
		"Form":    form,
		"Errors":  errs,
		"Editing": editing,
	})
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
