// Package api описывает порты сценариев, которые вызывает HTTP слой.
package api

import (
	"context"

	"yanote/internal/notes/app"
	"yanote/internal/notes/domain/entities"
	"yanote/internal/notes/domain/services"
)

// NoteUseCase определяет операции над заметками.
type NoteUseCase interface {
	CheckAccess(ctx context.Context, rc entities.RequestContext, op services.Operation) error

	ListNotes(ctx context.Context, rc entities.RequestContext) ([]*entities.Note, error)

	GetNote(ctx context.Context, rc entities.RequestContext, slug string, op services.Operation) (*entities.Note, error)

	CreateNote(ctx context.Context, rc entities.RequestContext, form services.NoteForm) (*entities.Note, error)

	UpdateNote(ctx context.Context, rc entities.RequestContext, slug string, form services.NoteForm) (*entities.Note, error)

	DeleteNote(ctx context.Context, rc entities.RequestContext, slug string) error

	CountNotes(ctx context.Context) (int, error)
}

// AuthUseCase определяет операции с учетными записями и сессиями.
type AuthUseCase interface {
	SignUp(ctx context.Context, form services.SignupForm) (*entities.User, error)

	Login(ctx context.Context, form services.LoginForm) (*app.Session, error)

	Logout(ctx context.Context, rc entities.RequestContext) error

	ResolveIdentity(ctx context.Context, token string) (*entities.Identity, error)
}

var (
	_ NoteUseCase = (*app.NoteUseCase)(nil)
	_ AuthUseCase = (*app.AuthUseCase)(nil)
)
