package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"yanote/pkg/logger"
)

// DefaultCleanupInterval период очистки истекших записей.
const DefaultCleanupInterval = 10 * time.Minute

// MemoryRevocationStore хранит отозванные токены в памяти процесса.
type MemoryRevocationStore struct {
	cache *gocache.Cache
	now   func() time.Time
}

// NewMemoryRevocationStore создает хранилище в памяти.
func NewMemoryRevocationStore(cleanupInterval time.Duration) *MemoryRevocationStore {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &MemoryRevocationStore{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
		now:   time.Now,
	}
}

// Revoke помечает токен отозванным до момента until.
func (s *MemoryRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodRevoke), zap.String("tokenID", tokenID))

	ttl := until.Sub(s.now())
	if ttl <= 0 {
		log.Debug(ctx, LogTokenExpired)
		return nil
	}

	s.cache.Set(revokedKey(tokenID), until, ttl)
	log.Debug(ctx, LogTokenRevoked, zap.Duration("ttl", ttl))
	return nil
}

// IsRevoked сообщает, отозван ли токен.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, found := s.cache.Get(revokedKey(tokenID))
	return found, nil
}

// Flush удаляет все записи.
func (s *MemoryRevocationStore) Flush() {
	s.cache.Flush()
}
