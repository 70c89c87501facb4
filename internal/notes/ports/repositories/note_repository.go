// Package repositories описывает интерфейсы хранилищ сервиса заметок.
package repositories

import (
	"context"

	"yanote/internal/notes/domain/entities"
)

// NoteRepository хранилище заметок.
// Уникальность slug обеспечивается самим хранилищем: конфликт возвращается как entities.ErrSlugTaken.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)
	GetBySlug(ctx context.Context, slug string) (*entities.Note, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*entities.Note, error)
	// Update меняет заголовок, текст и slug. Автор заметки не изменяется.
	Update(ctx context.Context, note *entities.Note) error
	Delete(ctx context.Context, noteID, authorID string) error
	Count(ctx context.Context) (int, error)
}
