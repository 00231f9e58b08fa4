package logger

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New(false)
	assert.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))

	l, err = New(true)
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestFromContext(t *testing.T) {
	assert.NotZero(t, FromContext(context.Background()))

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	FromContext(ctx).Info("loaded", zap.String("file", "main.ledger"))

	entries := logs.All()
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "loaded", entries[0].Message)
	assert.Equal[any](t, "main.ledger", entries[0].ContextMap()["file"])
}
