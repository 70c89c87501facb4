package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yanote/internal/notes/adapters/cache"
	httpadapter "yanote/internal/notes/adapters/http"
	"yanote/internal/notes/adapters/http/middleware"
	"yanote/internal/notes/adapters/memory"
	"yanote/internal/notes/adapters/postgres"
	"yanote/internal/notes/adapters/services"
	"yanote/internal/notes/app"
	"yanote/internal/notes/config"
	"yanote/internal/notes/db"
	domain "yanote/internal/notes/domain/services"
	"yanote/internal/notes/ports/repositories"
	portservices "yanote/internal/notes/ports/services"
	pkgredis "yanote/pkg/db/redis"
	"yanote/pkg/logger"
	"yanote/pkg/shutdown"
)

// Константы для сообщений об ошибках.
const (
	ErrInitDB         = "failed to initialize database"
	ErrInitRedis      = "failed to initialize redis"
	ErrInitHTTPServer = "failed to initialize HTTP server"
	ErrStartHTTP      = "failed to start HTTP server"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "note service started"
	LogServiceShutdownDone = "note service shutdown complete"
	LogServiceShutdownSlow = "note service shutdown timed out"
	LogClosingDB           = "closing database connections"
	LogInitRepo            = "initializing repositories"
	LogInitSessionStore    = "initializing session store"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogStartingHTTP        = "starting HTTP server"
)

const revocationCleanupInterval = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP сервер",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// storage выбранные хранилища и хуки их закрытия.
type storage struct {
	notes       repositories.NoteRepository
	users       repositories.UserRepository
	revocations portservices.TokenRevocationStore
	hooks       []shutdown.Hook
}

func serve(ctx context.Context) error {
	cfg, log, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	store := &storage{}
	if err := store.openRepositories(ctx, cfg); err != nil {
		store.close(ctx)
		return err
	}
	if err := store.openRevocations(ctx, cfg); err != nil {
		store.close(ctx)
		return err
	}

	log.Info(ctx, LogInitServices)
	tokens := services.NewJWT(cfg.Session.SecretKey, cfg.Session.Issuer, cfg.Session.GetTTL())
	passwords := services.NewBcrypt(cfg.Session.BCryptCost)
	forms := domain.NewFormValidator()

	log.Info(ctx, LogInitUseCases)
	noteUseCase := app.NewNoteUseCase(store.notes, forms)
	authUseCase := app.NewAuthUseCase(store.users, passwords, tokens, store.revocations, forms)

	srv, err := httpadapter.New(&cfg.HTTP, httpadapter.Dependencies{
		Notes: noteUseCase,
		Auth:  authUseCase,
		Cookie: middleware.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
		},
		Logger: log,
	})
	if err != nil {
		store.close(ctx)
		return fmt.Errorf("%s: %w", ErrInitHTTPServer, err)
	}

	log.Info(ctx, LogStartingHTTP)
	if err := srv.Start(ctx); err != nil {
		store.close(ctx)
		return fmt.Errorf("%s: %w", ErrStartHTTP, err)
	}

	log.Info(ctx, LogServiceStarted,
		zap.String("address", srv.Addr()),
		zap.String("environment", string(cfg.Logging.GetEnvironment())),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("session_store", cfg.Storage.SessionStore),
		zap.String("startup_time", time.Now().Format(time.RFC3339)))

	hooks := append([]shutdown.Hook{{Name: "http", Fn: srv.Stop}}, store.hooks...)
	if !shutdown.WaitContext(ctx, cfg.Shutdown.GetTimeout(), hooks...) {
		log.Warn(ctx, LogServiceShutdownSlow)
		return nil
	}

	log.Info(ctx, LogServiceShutdownDone)
	return nil
}

func (s *storage) openRepositories(ctx context.Context, cfg *config.Config) error {
	log := logger.Log(ctx)
	log.Info(ctx, LogInitRepo, zap.String("driver", cfg.Storage.Driver))

	if cfg.Storage.Driver != config.StoragePostgres {
		s.notes = memory.NewNoteRepository()
		s.users = memory.NewUserRepository()
		return nil
	}

	database, err := db.New(ctx, &cfg.Postgres)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInitDB, err)
	}

	factory := postgres.NewRepositoryFactory(database.Pool())
	s.notes = factory.NoteRepository()
	s.users = factory.UserRepository()
	s.hooks = append(s.hooks, shutdown.Hook{
		Name: "postgres",
		Fn: func(ctx context.Context) error {
			log.Info(ctx, LogClosingDB)
			database.Close(ctx)
			return nil
		},
	})
	return nil
}

func (s *storage) openRevocations(ctx context.Context, cfg *config.Config) error {
	logger.Log(ctx).Info(ctx, LogInitSessionStore, zap.String("store", cfg.Storage.SessionStore))

	if cfg.Storage.SessionStore != config.SessionStoreRedis {
		s.revocations = cache.NewMemoryRevocationStore(revocationCleanupInterval)
		return nil
	}

	client, err := pkgredis.NewClient(ctx, cfg.Redis.ClientConfig())
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInitRedis, err)
	}

	s.revocations = cache.NewRedisRevocationStore(client.RawClient())
	s.hooks = append(s.hooks, shutdown.Hook{Name: "redis", Fn: client.Close})
	return nil
}

// close освобождает уже открытые хранилища, если запуск не удался.
func (s *storage) close(ctx context.Context) {
	for _, hook := range s.hooks {
		if err := hook.Fn(ctx); err != nil {
			logger.Log(ctx).Error(ctx, shutdown.LogHookFailed, zap.String("hook", hook.Name), zap.Error(err))
		}
	}
}
