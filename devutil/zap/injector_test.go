//go:build unit

package zap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_RejectsInvalidEnvironment(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Environment: Environment("staging-ish")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid environment")
}

func TestNew_EnvironmentDefaultLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  Environment
		want zapcore.Level
	}{
		{env: EnvironmentProduction, want: zapcore.InfoLevel},
		{env: EnvironmentDevelopment, want: zapcore.DebugLevel},
		{env: EnvironmentLocal, want: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.env), func(t *testing.T) {
			t.Parallel()

			logger, err := New(Config{Environment: tt.env, DisableOTelBridge: true})
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.Level().Level())
		})
	}
}

func TestNew_CustomLevel(t *testing.T) {
	t.Parallel()

	logger, err := New(Config{Environment: EnvironmentProduction, Level: " error "})
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, logger.Level().Level())

	_, err = New(Config{Environment: EnvironmentProduction, Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid level")
}

func TestNew_LevelIsAdjustableAtRuntime(t *testing.T) {
	t.Parallel()

	logger, err := New(Config{Environment: EnvironmentProduction, DisableOTelBridge: true})
	require.NoError(t, err)

	assert.False(t, logger.Raw().Core().Enabled(zapcore.DebugLevel))

	logger.Level().SetLevel(zapcore.DebugLevel)

	assert.True(t, logger.Raw().Core().Enabled(zapcore.DebugLevel))
}
