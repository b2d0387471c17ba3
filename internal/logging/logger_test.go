package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	ctx := context.Background()

	quiet := New(false)
	assert.False(t, quiet.Enabled(ctx, slog.LevelDebug))
	assert.False(t, quiet.Enabled(ctx, slog.LevelInfo))
	assert.True(t, quiet.Enabled(ctx, slog.LevelWarn))

	verbose := New(true)
	assert.True(t, verbose.Enabled(ctx, slog.LevelDebug))
}

func TestNewNopLogger_DiscardsEverything(t *testing.T) {
	nop := NewNopLogger()
	assert.False(t, nop.Enabled(context.Background(), slog.LevelError))
	// Must not panic.
	nop.Error("ignored")
}
