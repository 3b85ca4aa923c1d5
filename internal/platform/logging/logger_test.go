package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_DefaultsToJSONHandler(t *testing.T) {
	l := NewLogger("info", "json")
	require.NotNil(t, l.Logger)
	require.True(t, l.Enabled(context.Background(), 0))
}

func TestNewLogger_LevelGating(t *testing.T) {
	l := NewLogger("warn", "text")
	ctx := context.Background()

	require.False(t, l.Logger.Enabled(ctx, -4)) // slog.LevelDebug
	require.True(t, l.Logger.Enabled(ctx, 4))   // slog.LevelWarn
}

func TestLogger_WithTraceNoSpanReturnsBareLogger(t *testing.T) {
	l := NewLogger("info", "json")
	got := l.WithTrace(context.Background())
	require.Same(t, l.Logger, got)
}

func TestLogger_HelpersDoNotPanicWithoutTrace(t *testing.T) {
	l := NewLogger("debug", "json")
	ctx := context.Background()

	require.NotPanics(t, func() {
		l.LogInfo(ctx, "info message", "k", "v")
		l.LogDebug(ctx, "debug message")
		l.LogWarn(ctx, "warn message")
		l.LogError(ctx, "error message", assert.AnError)
	})
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, int(-4), int(parseLevel("debug")))
	require.Equal(t, int(4), int(parseLevel("warn")))
	require.Equal(t, int(8), int(parseLevel("error")))
	require.Equal(t, int(0), int(parseLevel("info")))
	require.Equal(t, int(0), int(parseLevel("garbage")))
}
