// Package memory содержит хранилища в памяти процесса для разработки и тестов.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"yanote/internal/notes/domain/entities"
	"yanote/pkg/logger"
)

// NoteRepository хранит заметки в map, slug уникален под общей блокировкой.
type NoteRepository struct {
	mu     sync.RWMutex
	notes  map[string]*entities.Note
	bySlug map[string]string
}

// NewNoteRepository создает пустое хранилище.
func NewNoteRepository() *NoteRepository {
	return &NoteRepository{
		notes:  make(map[string]*entities.Note),
		bySlug: make(map[string]string),
	}
}

// Create сохраняет заметку и назначает ей идентификатор.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "memory.NoteRepository.Create"))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySlug[note.Slug]; taken {
		log.Debug(ctx, "slug already taken", zap.String("slug", note.Slug))
		return nil, entities.ErrSlugTaken
	}

	stored := cloneNote(note)
	stored.ID = uuid.NewString()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.notes[stored.ID] = &stored
	r.bySlug[stored.Slug] = stored.ID

	log.Debug(ctx, "note created", zap.String("noteID", stored.ID))
	out := stored
	return &out, nil
}

// GetBySlug возвращает копию заметки.
func (r *NoteRepository) GetBySlug(_ context.Context, slug string) (*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[slug]
	if !ok {
		return nil, entities.ErrNoteNotFound
	}
	out := *r.notes[id]
	return &out, nil
}

// SlugExists проверяет занятость slug другой заметкой.
func (r *NoteRepository) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[slug]
	return ok && id != excludeID, nil
}

// ListByAuthor возвращает заметки автора, новые первыми.
func (r *NoteRepository) ListByAuthor(_ context.Context, authorID string) ([]*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]*entities.Note, 0)
	for _, n := range r.notes {
		if n.AuthorID == authorID {
			out := *n
			notes = append(notes, &out)
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

// Update меняет заголовок, текст и slug заметки автора.
func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", "memory.NoteRepository.Update"))

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.notes[note.ID]
	if !ok || current.AuthorID != note.AuthorID {
		log.Debug(ctx, "note not found or not owned by user", zap.String("noteID", note.ID))
		return entities.ErrNoteNotFound
	}

	if id, taken := r.bySlug[note.Slug]; taken && id != note.ID {
		log.Debug(ctx, "slug already taken", zap.String("slug", note.Slug))
		return entities.ErrSlugTaken
	}

	delete(r.bySlug, current.Slug)
	current.Title = strings.Clone(note.Title)
	current.Text = strings.Clone(note.Text)
	current.Slug = strings.Clone(note.Slug)
	current.UpdatedAt = time.Now().UTC()
	r.bySlug[current.Slug] = current.ID

	note.UpdatedAt = current.UpdatedAt
	return nil
}

// Delete удаляет заметку автора.
func (r *NoteRepository) Delete(ctx context.Context, noteID, authorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.notes[noteID]
	if !ok || current.AuthorID != authorID {
		logger.Log(ctx).Debug(ctx, "note not found or not owned by user", zap.String("noteID", noteID))
		return entities.ErrNoteNotFound
	}

	delete(r.bySlug, current.Slug)
	delete(r.notes, noteID)
	return nil
}

// Count возвращает общее число заметок.
func (r *NoteRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notes), nil
}

// cloneNote копирует строки заметки, чтобы хранилище не ссылалось на буферы вызывающего.
func cloneNote(note *entities.Note) entities.Note {
	out := *note
	out.Title = strings.Clone(note.Title)
	out.Text = strings.Clone(note.Text)
	out.Slug = strings.Clone(note.Slug)
	out.AuthorID = strings.Clone(note.AuthorID)
	return out
}
