package repositories

import (
	"context"

	"yanote/internal/notes/domain/entities"
)

// UserRepository хранилище учетных записей.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
}
