// Package cache хранит список отозванных сессионных токенов.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"yanote/pkg/logger"
)

const (
	LogMethodRevoke    = "revoke"
	LogMethodIsRevoked = "is_revoked"
	LogTokenRevoked    = "session token revoked"
	LogTokenExpired    = "session token already expired, nothing to revoke"

	ErrorFailedToRevoke = "failed to store revoked token in redis"
	ErrorFailedToCheck  = "failed to check revoked token in redis"
)

const revokedKeyPrefix = "revoked_token:"

func revokedKey(tokenID string) string {
	return revokedKeyPrefix + tokenID
}

// RedisRevocationStore хранит отозванные токены в Redis с TTL до истечения токена.
type RedisRevocationStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisRevocationStore создает хранилище поверх клиента Redis.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client, now: time.Now}
}

// Revoke помечает токен отозванным до момента until.
func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodRevoke), zap.String("tokenID", tokenID))

	ttl := until.Sub(s.now())
	if ttl <= 0 {
		log.Debug(ctx, LogTokenExpired)
		return nil
	}

	if err := s.client.Set(ctx, revokedKey(tokenID), until.Unix(), ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToRevoke, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRevoke, err)
	}

	log.Debug(ctx, LogTokenRevoked, zap.Duration("ttl", ttl))
	return nil
}

// IsRevoked сообщает, отозван ли токен.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToCheck,
			zap.String("method", LogMethodIsRevoked), zap.String("tokenID", tokenID), zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToCheck, err)
	}
	return n > 0, nil
}
