// Package postgres содержит реализации хранилищ на PostgreSQL (pgx).
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Коды и ограничения PostgreSQL, которые переводятся в доменные ошибки.
const (
	uniqueViolationCode     = "23505"
	notesSlugConstraint     = "notes_slug_key"
	usersUsernameConstraint = "users_username_key"
)

// PgxPoolInterface подмножество pgxpool.Pool, используемое репозиториями.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// RepositoryFactory создает репозитории поверх одного пула.
type RepositoryFactory struct {
	pool PgxPoolInterface
}

// NewRepositoryFactory создает фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{pool: pool}
}

// NoteRepository возвращает репозиторий заметок.
func (f *RepositoryFactory) NoteRepository() *NoteRepository {
	return NewNoteRepository(f.pool)
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() *UserRepository {
	return NewUserRepository(f.pool)
}
