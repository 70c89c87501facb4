package config

import (
	"yanote/pkg/logger"
)

// LoggingConfig настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"NOTES_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"NOTES_LOGGER_MODE" env-default:"development"`
	// Путь к файлу журнала. Пустой путь отключает запись в файл.
	File       string `yaml:"file" env:"NOTES_LOGGER_FILE" env-default:""`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"NOTES_LOGGER_FILE_MAX_SIZE_MB" env-default:"10"`
	MaxBackups int    `yaml:"max_backups" env:"NOTES_LOGGER_FILE_MAX_BACKUPS" env-default:"5"`
	MaxAgeDays int    `yaml:"max_age_days" env:"NOTES_LOGGER_FILE_MAX_AGE_DAYS" env-default:"30"`
	Compress   bool   `yaml:"compress" env:"NOTES_LOGGER_FILE_COMPRESS" env-default:"true"`
}

// GetEnvironment переводит строку режима в logger.Environment.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if l.Mode == "production" {
		return logger.Production
	}
	return logger.Development
}

// Options возвращает опции логгера, соответствующие настройкам.
func (l *LoggingConfig) Options() []logger.Option {
	if l.File == "" {
		return nil
	}
	return []logger.Option{logger.WithFile(logger.FileOutput{
		Path:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	})}
}
