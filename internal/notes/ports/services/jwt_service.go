// Package services описывает интерфейсы вспомогательных сервисов.
package services

import (
	"context"
	"errors"
	"time"

	"yanote/internal/notes/domain/entities"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token has expired")
	ErrRevokedToken = errors.New("session token has been revoked")
)

// TokenService выпускает и проверяет сессионные токены.
type TokenService interface {
	Generate(ctx context.Context, user *entities.User) (string, *entities.Identity, error)
	Validate(ctx context.Context, token string) (*entities.Identity, error)
}

// TokenRevocationStore список отозванных токенов. Запись хранится до истечения токена.
type TokenRevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
