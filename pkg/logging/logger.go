// Package logging builds the diagnostic logger. The terminal belongs to the
// UI, so logs go to a file or nowhere.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file created in the log directory.
const FileName = "sniper.log"

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	_, err := l.zapLevel()
	return err == nil
}

func (l Level) zapLevel() (zapcore.Level, error) {
	switch Level(strings.ToLower(string(l))) {
	case LevelDebug:
		return zapcore.DebugLevel, nil
	case LevelInfo, "":
		return zapcore.InfoLevel, nil
	case LevelWarn:
		return zapcore.WarnLevel, nil
	case LevelError:
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", string(l))
}

// Options configures New.
type Options struct {
	// Disabled returns a no-op logger.
	Disabled bool
	// Dir receives FileName.
	Dir string
	// Level is the minimum level written.
	Level Level
}

// New builds a JSON logger appending to Dir/FileName.
func New(opts Options) (*zap.Logger, error) {
	if opts.Disabled {
		return zap.NewNop(), nil
	}
	level, err := opts.Level.zapLevel()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, fmt.Errorf("log directory is required")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := Path(opts.Dir)
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
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

// Path returns the log file inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}
