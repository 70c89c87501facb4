// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"yanote/internal/notes/domain/entities"
	domain "yanote/internal/notes/domain/services"
	"yanote/internal/notes/ports/repositories"
	"yanote/pkg/logger"
)

// Ошибки уровня бизнес-логики.
var (
	ErrNotFound               = errors.New("note not found")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)

const (
	methodListNotes  = "ListNotes"
	methodGetNote    = "GetNote"
	methodCreateNote = "CreateNote"
	methodUpdateNote = "UpdateNote"
	methodDeleteNote = "DeleteNote"

	msgAnonymousAccess  = "anonymous access to protected operation"
	msgNoteHidden       = "note is missing or belongs to another user"
	msgInvalidNoteForm  = "note form is invalid"
	msgSlugRejected     = "slug rejected"
	msgNoteCreated      = "note created"
	msgNoteUpdated      = "note updated"
	msgNoteDeleted      = "note deleted"
	msgErrListNotes     = "failed to list notes"
	msgErrGetNote       = "failed to get note"
	msgErrResolveSlug   = "failed to resolve slug"
	msgErrCreateNote    = "failed to create note"
	msgErrUpdateNote    = "failed to update note"
	msgErrDeleteNote    = "failed to delete note"
	msgErrCountNotes    = "failed to count notes"
	msgErrValidateNote  = "failed to validate note form"
	errCtxResolvingSlug = "resolving slug"
)

// NoteUseCase представляет собой бизнес-логику работы с заметками.
type NoteUseCase struct {
	notes repositories.NoteRepository
	slugs *domain.SlugPolicy
	forms *domain.FormValidator
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(notes repositories.NoteRepository, forms *domain.FormValidator) *NoteUseCase {
	return &NoteUseCase{
		notes: notes,
		slugs: domain.NewSlugPolicy(notes),
		forms: forms,
	}
}

// CheckAccess проверяет операцию, не относящуюся к конкретной заметке.
func (uc *NoteUseCase) CheckAccess(ctx context.Context, rc entities.RequestContext, op domain.Operation) error {
	if domain.Authorize(rc, op, nil) == domain.RedirectToLogin {
		logger.Log(ctx).Debug(ctx, msgAnonymousAccess, zap.String("operation", string(op)))
		return ErrAuthenticationRequired
	}
	return nil
}

// ListNotes возвращает заметки текущего пользователя, новые первыми.
func (uc *NoteUseCase) ListNotes(ctx context.Context, rc entities.RequestContext) ([]*entities.Note, error) {
	if err := uc.CheckAccess(ctx, rc, domain.OpList); err != nil {
		return nil, err
	}

	notes, err := uc.notes.ListByAuthor(ctx, rc.UserID())
	if err != nil {
		logger.Log(ctx).Error(ctx, msgErrListNotes, zap.String("method", methodListNotes), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", msgErrListNotes, err)
	}
	return notes, nil
}

// GetNote возвращает заметку, если операция op над ней разрешена.
// Отсутствующая и чужая заметки неразличимы: обе дают ErrNotFound.
func (uc *NoteUseCase) GetNote(ctx context.Context, rc entities.RequestContext, slug string, op domain.Operation) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetNote), zap.String("slug", slug))

	if err := uc.CheckAccess(ctx, rc, op); err != nil {
		return nil, err
	}

	note, err := uc.notes.GetBySlug(ctx, slug)
	if err != nil && !errors.Is(err, entities.ErrNoteNotFound) {
		log.Error(ctx, msgErrGetNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", msgErrGetNote, err)
	}

	if note == nil || domain.Authorize(rc, op, note) != domain.Allow {
		log.Debug(ctx, msgNoteHidden, zap.String("operation", string(op)))
		return nil, ErrNotFound
	}
	return note, nil
}

// CreateNote проверяет форму, выбирает slug и сохраняет заметку текущего пользователя.
// Ошибки формы возвращаются как *domain.ValidationError.
func (uc *NoteUseCase) CreateNote(ctx context.Context, rc entities.RequestContext, form domain.NoteForm) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateNote))

	if err := uc.CheckAccess(ctx, rc, domain.OpAdd); err != nil {
		return nil, err
	}

	form.Normalize()
	if err := uc.validate(ctx, form); err != nil {
		return nil, err
	}

	slug, err := uc.resolveSlug(ctx, form, "")
	if err != nil {
		return nil, err
	}

	created, err := uc.notes.Create(ctx, entities.NewNote(rc.UserID(), form.Title, form.Text, slug))
	if err != nil {
		if errors.Is(err, entities.ErrSlugTaken) {
			log.Debug(ctx, msgSlugRejected, zap.String("slug", slug))
			return nil, duplicateSlug(slug)
		}
		log.Error(ctx, msgErrCreateNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", msgErrCreateNote, err)
	}

	log.Info(ctx, msgNoteCreated, zap.String("noteID", created.ID), zap.String("slug", created.Slug))
	return created, nil
}

// UpdateNote меняет заголовок, текст и slug заметки автора.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, rc entities.RequestContext, slug string, form domain.NoteForm) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateNote), zap.String("slug", slug))

	note, err := uc.GetNote(ctx, rc, slug, domain.OpEdit)
	if err != nil {
		return nil, err
	}

	form.Normalize()
	if err := uc.validate(ctx, form); err != nil {
		return nil, err
	}

	newSlug, err := uc.resolveSlug(ctx, form, note.ID)
	if err != nil {
		return nil, err
	}

	updated := *note
	updated.Title = form.Title
	updated.Text = form.Text
	updated.Slug = newSlug

	if err := uc.notes.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, entities.ErrSlugTaken):
			log.Debug(ctx, msgSlugRejected, zap.String("newSlug", newSlug))
			return nil, duplicateSlug(newSlug)
		case errors.Is(err, entities.ErrNoteNotFound):
			return nil, ErrNotFound
		}
		log.Error(ctx, msgErrUpdateNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", msgErrUpdateNote, err)
	}

	log.Info(ctx, msgNoteUpdated, zap.String("noteID", updated.ID), zap.String("newSlug", updated.Slug))
	return &updated, nil
}

// DeleteNote удаляет заметку автора.
func (uc *NoteUseCase) DeleteNote(ctx context.Context, rc entities.RequestContext, slug string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteNote), zap.String("slug", slug))

	note, err := uc.GetNote(ctx, rc, slug, domain.OpDelete)
	if err != nil {
		return err
	}

	if err := uc.notes.Delete(ctx, note.ID, rc.UserID()); err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return ErrNotFound
		}
		log.Error(ctx, msgErrDeleteNote, zap.Error(err))
		return fmt.Errorf("%s: %w", msgErrDeleteNote, err)
	}

	log.Info(ctx, msgNoteDeleted, zap.String("noteID", note.ID))
	return nil
}

// CountNotes возвращает общее число заметок всех пользователей.
func (uc *NoteUseCase) CountNotes(ctx context.Context) (int, error) {
	count, err := uc.notes.Count(ctx)
	if err != nil {
		logger.Log(ctx).Error(ctx, msgErrCountNotes, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", msgErrCountNotes, err)
	}
	return count, nil
}

func (uc *NoteUseCase) validate(ctx context.Context, form domain.NoteForm) error {
	err := uc.forms.ValidateNote(form)
	if err == nil {
		return nil
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		logger.Log(ctx).Debug(ctx, msgInvalidNoteForm, zap.Any("fields", verr.Fields))
		return verr
	}
	return fmt.Errorf("%s: %w", msgErrValidateNote, err)
}

func (uc *NoteUseCase) resolveSlug(ctx context.Context, form domain.NoteForm, excludeID string) (string, error) {
	slug, err := uc.slugs.Resolve(ctx, form.Title, form.Slug, excludeID)
	if err == nil {
		return slug, nil
	}

	if verr := domain.SlugFieldError(err); verr != nil {
		logger.Log(ctx).Debug(ctx, msgSlugRejected, zap.Error(err))
		return "", fmt.Errorf("%w: %w", err, verr)
	}
	logger.Log(ctx).Error(ctx, msgErrResolveSlug, zap.Error(err))
	return "", fmt.Errorf("%s: %w", errCtxResolvingSlug, err)
}

// duplicateSlug описывает проигранную гонку за slug той же ошибкой формы, что и обычную проверку.
func duplicateSlug(slug string) error {
	dup := &domain.DuplicateSlugError{Slug: slug}
	return fmt.Errorf("%w: %w", dup, domain.FieldError("slug", dup.Error()))
}
