package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logger, err := New(dir, true)
	require.NoError(t, err)
	logger.Debug("page loaded", zap.Int("page", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"page loaded"`)
	assert.Contains(t, string(data), `"page":3`)
}

func TestInfoLevelDropsDebug(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logger, err := New(dir, false)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}
