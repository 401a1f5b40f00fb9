package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{3, zapcore.DebugLevel},
		{7, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestInitialize(t *testing.T) {
	require.NoError(t, Initialize(false, VerbosityInfo))
	assert.NotNil(t, Logger)
	assert.False(t, JSONOutput)

	require.NoError(t, Initialize(true, VerbosityUser))
	assert.NotNil(t, Logger)
	assert.True(t, JSONOutput)
}

func TestLoggerUsableBeforeInitialize(t *testing.T) {
	// The package-level no-op logger must not panic.
	assert.NotPanics(t, func() {
		Logger.Infow("early message", "key", "value")
	})
}
