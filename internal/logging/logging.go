// Package logging builds the diagnostics logger. The TUI owns the
// terminal, so log output goes to a file instead of stderr.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewFile returns a production zap logger writing JSON lines to path,
// creating parent directories as needed.
func NewFile(path string) (*zap.Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Nop returns a logger that discards everything. Used by one-shot
// commands and tests where diagnostics have nowhere useful to go.
func Nop() *zap.Logger {
	return zap.NewNop()
}
