package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"yanote/internal/notes/config"
	"yanote/pkg/logger"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTES_LOGGER_MODE"
	EnvLoggerLevel = "NOTES_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "notes",
	Short:         "Сервис личных заметок",
	Long:          "Веб-приложение для личных заметок: список, создание, редактирование и удаление заметок автором.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		env := logger.Development
		if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
			env = logger.Production
		}
		if err := logger.InitGlobalLogger(env, os.Getenv(EnvLoggerLevel)); err != nil {
			return fmt.Errorf("%s: %w", ErrInitLogger, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "путь к файлу с переменными окружения")
}

// Execute запускает выбранную команду и возвращает код завершения.
func Execute() int {
	ctx := logger.NewRequestIDContext(context.Background(), "")

	err := rootCmd.ExecuteContext(ctx)
	syncLogger(ctx)

	if err != nil {
		if _, writeErr := fmt.Fprintln(os.Stderr, err); writeErr != nil {
			panic(writeErr)
		}
		return 1
	}
	return 0
}

// loadConfig читает конфигурацию и переключает глобальный логгер на ее настройки.
func loadConfig(ctx context.Context) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(ctx, envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrLoadConfig, err)
	}

	log, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level, cfg.Logging.Options()...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrInitLoggerWithConfig, err)
	}
	logger.SetGlobalLogger(log)

	return cfg, log, nil
}

func syncLogger(ctx context.Context) {
	if err := logger.Log(ctx).Sync(); err != nil && !logger.IsIgnorableSyncError(err) {
		if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
			panic(writeErr)
		}
	}
}
