package logger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"threadnotes/pkg/logger"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     logger.Environment
		level   string
		wantErr bool
	}{
		{name: "development with debug level", env: logger.Development, level: "debug"},
		{name: "production with info level", env: logger.Production, level: "info"},
		{name: "default level", env: logger.Development, level: ""},
		{name: "upper case level", env: logger.Production, level: "WARN"},
		{name: "invalid level", env: logger.Development, level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.NewLogger(tt.env, tt.level)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, log)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Run("success when logger exists in context", func(t *testing.T) {
		testLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		ctx := logger.NewContext(context.Background(), testLogger)

		retrieved, err := logger.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, testLogger, retrieved)
	})

	t.Run("error when no logger in context", func(t *testing.T) {
		retrieved, err := logger.FromContext(context.Background())
		require.Error(t, err)
		assert.Nil(t, retrieved)
		assert.ErrorIs(t, err, logger.ErrLoggerNotFound)
	})

	t.Run("success with derived context", func(t *testing.T) {
		testLogger := logger.NewNop()

		type ctxKeyType struct{}
		ctx := logger.NewContext(context.Background(), testLogger)
		derived := context.WithValue(ctx, ctxKeyType{}, "value")

		retrieved, err := logger.FromContext(derived)
		require.NoError(t, err)
		assert.Same(t, testLogger, retrieved)
	})
}

func TestLog(t *testing.T) {
	t.Run("prefers logger from context", func(t *testing.T) {
		ctxLogger := logger.NewNop()
		ctx := logger.NewContext(context.Background(), ctxLogger)

		assert.Same(t, ctxLogger, logger.Log(ctx))
	})

	t.Run("falls back to global logger", func(t *testing.T) {
		global := logger.NewNop()
		logger.SetGlobalLogger(global)
		t.Cleanup(func() { logger.SetGlobalLogger(nil) })

		assert.Same(t, global, logger.Log(context.Background()))
	})

	t.Run("returns fallback logger when nothing is configured", func(t *testing.T) {
		logger.SetGlobalLogger(nil)

		log := logger.Log(context.Background())
		require.NotNil(t, log)
		assert.NotPanics(t, func() {
			log.Warn(context.Background(), "fallback in use", zap.String("test", t.Name()))
		})
	})
}

func TestInitGlobalLoggerWithLevel(t *testing.T) {
	logger.SetGlobalLogger(nil)
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Development, "info"))
	first := logger.Log(context.Background())

	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Production, "error"))
	assert.Same(t, first, logger.Log(context.Background()), "second init must keep the existing logger")
}

func TestInitGlobalLoggerWithLevel_InvalidLevel(t *testing.T) {
	logger.SetGlobalLogger(nil)
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	err := logger.InitGlobalLoggerWithLevel(logger.Development, "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, logger.ErrInitGlobalLogger)
}

func TestRequestID(t *testing.T) {
	t.Run("keeps provided id", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "req-42")

		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		assert.Equal(t, "req-42", id)
	})

	t.Run("generates uuid when empty", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "")

		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("missing id", func(t *testing.T) {
		_, ok := logger.GetRequestID(context.Background())
		assert.False(t, ok)
	})

	t.Run("generated ids are unique", func(t *testing.T) {
		assert.NotEqual(t, logger.GenerateRequestID(), logger.GenerateRequestID())
	})
}

func TestLoggerMethods(t *testing.T) {
	log, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)

	ctx := logger.NewRequestIDContext(context.Background(), "req-1")
	child := log.With(zap.String("component", "test"))

	assert.NotPanics(t, func() {
		child.Debug(ctx, "debug message")
		child.Info(ctx, "info message", zap.Int("n", 1))
		child.Warn(ctx, "warn message")
		child.Error(ctx, "error message")
	})
}
