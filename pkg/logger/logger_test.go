package logger_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yanote/pkg/logger"
)

func TestNewLogger(t *testing.T) {
	levels := []string{"debug", "info", "warn", "warning", "error", "unknown", ""}

	for _, env := range []logger.Environment{logger.Development, logger.Production} {
		for _, level := range levels {
			t.Run(string(env)+"/level="+level, func(t *testing.T) {
				log, err := logger.NewLogger(env, level)
				require.NoError(t, err)
				require.NotNil(t, log)
			})
		}
	}

	t.Run("writes to rotated file when configured", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.log")

		log, err := logger.NewLogger(logger.Production, "info", logger.WithFile(logger.FileOutput{Path: path}))
		require.NoError(t, err)

		ctx := logger.NewRequestIDContext(context.Background(), "file-request")
		log.Info(ctx, "stored in file")
		_ = log.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "stored in file")
		assert.Contains(t, string(data), "file-request")
	})

	t.Run("empty file path is ignored", func(t *testing.T) {
		log, err := logger.NewLogger(logger.Development, "info", logger.WithFile(logger.FileOutput{}))
		require.NoError(t, err)
		assert.NotNil(t, log)
	})
}

func TestLoggerMethods(t *testing.T) {
	log, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)

	ctx := logger.NewRequestIDContext(context.Background(), "req-1")

	assert.NotPanics(t, func() {
		log.Debug(ctx, "debug")
		log.Info(ctx, "info", zap.String("k", "v"))
		log.Warn(ctx, "warn")
		log.Error(ctx, "error")
	})

	withField := log.With(zap.String("component", "test"))
	assert.NotSame(t, log, withField)

	withID := log.WithRequestID(ctx)
	assert.NotSame(t, log, withID)

	assert.Same(t, log, log.WithRequestID(context.Background()))
}

func TestContextLogger(t *testing.T) {
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	t.Run("logger stored in context is returned", func(t *testing.T) {
		log, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		ctx := logger.NewContext(context.Background(), log)

		got, err := logger.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, log, got)
		assert.Same(t, log, logger.Log(ctx))
	})

	t.Run("missing logger is reported", func(t *testing.T) {
		got, err := logger.FromContext(context.Background())
		require.ErrorIs(t, err, logger.ErrLoggerNotFound)
		assert.Nil(t, got)
	})

	t.Run("global logger is used when context has none", func(t *testing.T) {
		log, err := logger.NewLogger(logger.Production, "warn")
		require.NoError(t, err)
		logger.SetGlobalLogger(log)

		assert.Same(t, log, logger.Log(context.Background()))
	})

	t.Run("fallback logger is never nil", func(t *testing.T) {
		logger.SetGlobalLogger(nil)
		assert.NotNil(t, logger.Log(context.Background()))
	})

	t.Run("init keeps the first global logger", func(t *testing.T) {
		logger.SetGlobalLogger(nil)

		require.NoError(t, logger.InitGlobalLogger(logger.Development, "info"))
		first := logger.Log(context.Background())

		require.NoError(t, logger.InitGlobalLogger(logger.Production, "error"))
		assert.Same(t, first, logger.Log(context.Background()))
	})
}

func TestRequestID(t *testing.T) {
	t.Run("explicit id is kept", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "abc")

		id, ok := logger.GetRequestID(ctx)
		assert.True(t, ok)
		assert.Equal(t, "abc", id)
	})

	t.Run("empty id is generated as uuid v4", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "")

		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())
	})

	t.Run("unfit client ids are replaced", func(t *testing.T) {
		for _, raw := range []string{"with space", "line\nbreak", strings.Repeat("a", logger.MaxRequestIDLength+1), "идентификатор"} {
			id, ok := logger.GetRequestID(logger.NewRequestIDContext(context.Background(), raw))
			require.True(t, ok)
			assert.NotEqual(t, raw, id)
			_, err := uuid.Parse(id)
			assert.NoError(t, err)
		}
	})

	t.Run("absent id", func(t *testing.T) {
		id, ok := logger.GetRequestID(context.Background())
		assert.False(t, ok)
		assert.Empty(t, id)
	})

	t.Run("generated ids are unique", func(t *testing.T) {
		assert.NotEqual(t, logger.GenerateRequestID(), logger.GenerateRequestID())
	})
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, logger.IsIgnorableSyncError(nil))
	assert.True(t, logger.IsIgnorableSyncError(&os.PathError{Op: "sync", Path: "/dev/stderr", Err: os.ErrInvalid}))
	assert.False(t, logger.IsIgnorableSyncError(os.ErrPermission))
}
