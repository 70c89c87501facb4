package http

import (
	"context"
	"fmt"
	"net"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"yanote/internal/notes/adapters/http/views"
	"yanote/internal/notes/config"
	"yanote/pkg/logger"
)

const appName = "yanote"

// Server представляет HTTP сервер.
type Server struct {
	app      *fiber.App
	address  string
	listener net.Listener
}

// New создает сервер с шаблонами, обработчиком ошибок и маршрутами.
func New(cfg *config.HTTPConfig, deps Dependencies) (*Server, error) {
	engine, err := views.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to load views: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      appName,
		Immutable:    true,
		Views:        engine,
		ViewsLayout:  views.Layout,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})

	if err := SetupRouter(app, deps); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}

	return &Server{
		app:     app,
		address: cfg.GetAddress(),
	}, nil
}

// App возвращает приложение fiber, например для app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start запускает HTTP сервер.
func (s *Server) Start(ctx context.Context) error {
	log := logger.Log(ctx)

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener

	log.Info(ctx, "HTTP server started", zap.String("address", listener.Addr().String()))

	go func() {
		if err := s.app.Listener(listener, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Error(ctx, "failed to serve HTTP", zap.Error(err))
		}
	}()

	return nil
}

// Addr возвращает фактический адрес после Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.address
	}
	return s.listener.Addr().String()
}

// Stop останавливает HTTP сервер, дожидаясь активных запросов.
func (s *Server) Stop(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, "stopping HTTP server")

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
