package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("production defaults to info", func(t *testing.T) {
		l, err := New("production", "")
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("development defaults to debug", func(t *testing.T) {
		l, err := New("development", "")
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("explicit level wins", func(t *testing.T) {
		l, err := New("development", "warn")
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New("production", "loud")
		assert.Error(t, err)
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := WithRequestID(context.Background(), base, "req-123")
	FromContext(ctx, nil).Info("handled")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])

	assert.Same(t, base, FromContext(context.Background(), base))
	assert.NotNil(t, FromContext(context.Background(), nil))
}
