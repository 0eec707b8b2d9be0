package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (*EngineLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewFromZap(zap.New(core)), logs
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			level, err := ParseLevel(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, level)
		})
	}
}

func TestEngineLoggerFields(t *testing.T) {
	logger, logs := newObserved(zapcore.DebugLevel)
	ctx := context.Background()

	logger.WithComponent("composer").With("board", "marsohod2").
		Warn(ctx, errors.New("boom"), "variant downgraded", "variant", "superscalar", 42)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "variant downgraded", entries[0].Message)
	assert.Equal(t, "marsohod2", fields["board"])
	assert.Equal(t, "composer", fields["component"])
	assert.Equal(t, "superscalar", fields["variant"])
	assert.Equal(t, "boom", fields["error"])
}

func TestEngineLoggerLevel(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)
	ctx := context.Background()

	logger.Debug(ctx, "hidden")
	logger.Info(ctx, "shown")
	logger.Error(ctx, nil, "also shown")

	assert.Equal(t, 2, logs.Len())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger, err = NewLogger(nil)
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestPerfLogger(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)
	ctx := context.Background()

	op := StartOperation(logger, "generate")
	op.End(ctx, "files", 5)
	StartOperation(logger, "dump").EndWithError(ctx, errors.New("disk full"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "generate", entries[0].ContextMap()["operation"])
	assert.Equal(t, int64(5), entries[0].ContextMap()["files"])
	assert.Contains(t, entries[0].ContextMap(), "duration_ms")
	assert.Equal(t, "Operation failed", entries[1].Message)
}
