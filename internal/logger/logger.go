// Package logger wraps zap construction for the server.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Logger carries the application zap logger.
type Logger struct {
	// Log is the underlying structured logger. It is a no-op until Init runs.
	Log *zap.Logger
}

// New returns a Logger with a no-op backend.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a production logger at the given level ("debug", "info", ...).
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	log, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = log
	return nil
}
