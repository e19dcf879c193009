package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file created inside the config directory.
const FileName = "roriboard.log"

// New builds a production logger writing JSON lines to dir/roriboard.log.
// The terminal belongs to the UI, so nothing goes to stdout or stderr.
func New(dir string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, FileName)

	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// NewOrNop falls back to a no-op logger when the file cannot be opened.
func NewOrNop(dir string, verbose bool) *zap.Logger {
	logger, err := New(dir, verbose)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
