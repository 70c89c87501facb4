package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"yanote/internal/notes/domain/entities"
	"yanote/pkg/logger"
)

const (
	queryCreateNote    = `INSERT INTO notes (title, text, slug, author_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	queryNoteBySlug    = `SELECT id, title, text, slug, author_id, created_at, updated_at FROM notes WHERE slug = $1`
	querySlugExists    = `SELECT EXISTS (SELECT 1 FROM notes WHERE slug = $1 AND ($2 = '' OR id::text <> $2))`
	queryNotesByAuthor = `SELECT id, title, text, slug, author_id, created_at, updated_at FROM notes WHERE author_id = $1 ORDER BY created_at DESC, id`
	queryUpdateNote    = `UPDATE notes SET title = $1, text = $2, slug = $3, updated_at = NOW() WHERE id = $4 AND author_id = $5 RETURNING updated_at`
	queryDeleteNote    = `DELETE FROM notes WHERE id = $1 AND author_id = $2`
	queryCountNotes    = `SELECT COUNT(*) FROM notes`
)

// NoteRepository хранилище заметок в PostgreSQL.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface) *NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create сохраняет заметку. Нарушение уникальности slug возвращается как entities.ErrSlugTaken.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating note", zap.String("authorID", note.AuthorID), zap.String("slug", note.Slug))

	created := *note
	err := r.pool.QueryRow(ctx, queryCreateNote, note.Title, note.Text, note.Slug, note.AuthorID).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, notesSlugConstraint) {
			log.Debug(ctx, "slug already taken", zap.String("slug", note.Slug))
			return nil, entities.ErrSlugTaken
		}
		log.Error(ctx, "failed to create note", zap.Error(err))
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	log.Debug(ctx, "note created", zap.String("noteID", created.ID))
	return &created, nil
}

// GetBySlug находит заметку по slug.
func (r *NoteRepository) GetBySlug(ctx context.Context, slug string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetBySlug"))

	note, err := scanNote(r.pool.QueryRow(ctx, queryNoteBySlug, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("slug", slug))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// SlugExists проверяет, занят ли slug заметкой с другим идентификатором.
func (r *NoteRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, querySlugExists, slug, excludeID).Scan(&exists); err != nil {
		logger.Log(ctx).Error(ctx, "failed to check slug", zap.String("method", "NoteRepository.SlugExists"), zap.Error(err))
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// ListByAuthor возвращает заметки автора, новые первыми.
func (r *NoteRepository) ListByAuthor(ctx context.Context, authorID string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListByAuthor"))
	log.Debug(ctx, "listing notes", zap.String("authorID", authorID))

	rows, err := r.pool.Query(ctx, queryNotesByAuthor, authorID)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return notes, nil
}

// Update меняет заголовок, текст и slug. Колонка author_id не обновляется.
func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))
	log.Debug(ctx, "updating note", zap.String("noteID", note.ID))

	err := r.pool.QueryRow(ctx, queryUpdateNote, note.Title, note.Text, note.Slug, note.ID, note.AuthorID).
		Scan(&note.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			log.Debug(ctx, "note not found or not owned by user")
			return entities.ErrNoteNotFound
		case isUniqueViolation(err, notesSlugConstraint):
			log.Debug(ctx, "slug already taken", zap.String("slug", note.Slug))
			return entities.ErrSlugTaken
		}
		log.Error(ctx, "failed to update note", zap.Error(err))
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

// Delete удаляет заметку автора.
func (r *NoteRepository) Delete(ctx context.Context, noteID, authorID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))
	log.Debug(ctx, "deleting note", zap.String("noteID", noteID))

	result, err := r.pool.Exec(ctx, queryDeleteNote, noteID, authorID)
	if err != nil {
		log.Error(ctx, "failed to delete note", zap.Error(err))
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found or not owned by user")
		return entities.ErrNoteNotFound
	}
	return nil
}

// Count возвращает общее число заметок.
func (r *NoteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, queryCountNotes).Scan(&count); err != nil {
		logger.Log(ctx).Error(ctx, "failed to count notes", zap.String("method", "NoteRepository.Count"), zap.Error(err))
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return count, nil
}

func scanNote(row pgx.Row) (*entities.Note, error) {
	var n entities.Note
	if err := row.Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
