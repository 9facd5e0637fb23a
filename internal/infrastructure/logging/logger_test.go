package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/andrescamacho/skirmish-go/internal/infrastructure/config"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/logging"
)

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "skirmish.log")
	cfg := config.LoggingConfig{Level: "warn", Format: "json", Output: "file", FilePath: path}

	// Act
	logger, err := logging.NewLogger(cfg)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("repair failed")
	_ = logger.Sync()

	// Assert
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"msg":"repair failed"`)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := logging.NewLogger(config.LoggingConfig{Level: "loud", Format: "text", Output: "stdout"})

	assert.Error(t, err)
}
