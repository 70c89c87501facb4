package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"yanote/internal/notes/domain/entities"
)

// UserRepository хранит пользователей в map.
type UserRepository struct {
	mu         sync.RWMutex
	users      map[string]*entities.User
	byUsername map[string]string
}

// NewUserRepository создает пустое хранилище.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:      make(map[string]*entities.User),
		byUsername: make(map[string]string),
	}
}

// Create сохраняет пользователя. Имя пользователя уникально.
func (r *UserRepository) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return nil, entities.ErrUsernameTaken
	}

	stored := *user
	stored.Username = strings.Clone(user.Username)
	stored.PasswordHash = strings.Clone(user.PasswordHash)
	stored.ID = uuid.NewString()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.users[stored.ID] = &stored
	r.byUsername[stored.Username] = stored.ID

	out := stored
	return &out, nil
}

// FindByID находит пользователя по идентификатору.
func (r *UserRepository) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// FindByUsername находит пользователя по имени.
func (r *UserRepository) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	out := *r.users[id]
	return &out, nil
}
