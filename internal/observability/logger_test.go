package observability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/votelens/votelens/internal/config"
)

// syncBuffer adapts strings.Builder to zapcore.WriteSyncer for capturing
// console output in tests.
type syncBuffer struct {
	strings.Builder
}

func (*syncBuffer) Sync() error { return nil }

func TestInitialize(t *testing.T) {
	t.Run("console output carries service name and level", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		buf := &syncBuffer{}
		Initialize(config.LoggerConfig{
			Level:       "debug",
			Format:      "json",
			ServiceName: "votelens-test",
		}, zapcore.Lock(buf))

		logger := GetLogger()
		require.NotNil(t, logger)
		logger.Info("hello from the test")
		require.NoError(t, logger.Sync())

		out := buf.String()
		assert.Contains(t, out, "hello from the test")
		assert.Contains(t, out, "votelens-test")
		assert.Contains(t, out, "INFO")
	})

	t.Run("initialization happens exactly once", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		first := &syncBuffer{}
		Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "first"}, zapcore.Lock(first))
		second := &syncBuffer{}
		Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "second"}, zapcore.Lock(second))

		GetLogger().Info("routed to the first sink")
		assert.Contains(t, first.String(), "routed to the first sink")
		assert.Empty(t, second.String())
	})

	t.Run("bad level falls back to info", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		buf := &syncBuffer{}
		Initialize(config.LoggerConfig{Level: "nonsense", Format: "json", ServiceName: "x"}, zapcore.Lock(buf))

		GetLogger().Debug("below the fallback level")
		GetLogger().Info("at the fallback level")
		assert.NotContains(t, buf.String(), "below the fallback level")
		assert.Contains(t, buf.String(), "at the fallback level")
	})
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	// Must not panic and must return something usable.
	logger := GetLogger()
	require.NotNil(t, logger)
	logger.Info("fallback logger works")
}
