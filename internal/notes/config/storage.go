package config

import (
	"errors"
	"fmt"
)

// Драйверы хранилища заметок и пользователей.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Хранилища списка отозванных сессий.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

var (
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
	ErrUnknownSessionStore  = errors.New("unknown session store")
)

// StorageConfig выбирает реализации хранилищ.
type StorageConfig struct {
	Driver       string `yaml:"driver" env:"NOTES_STORAGE_DRIVER" env-default:"memory"`
	SessionStore string `yaml:"session_store" env:"NOTES_SESSION_STORE" env-default:"memory"`
}

// Validate проверяет, что выбраны известные реализации.
func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Driver)
	}

	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSessionStore, c.SessionStore)
	}
	return nil
}
