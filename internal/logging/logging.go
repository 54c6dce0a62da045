// Package logging builds the zap loggers shared by the CLI and the server.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a sugared logger at the given level. "debug" switches to the
// human readable development encoder; every other level logs JSON.
func New(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), nil
}

// Must is New for callers that cannot continue without a logger.
func Must(level string) *zap.SugaredLogger {
	logger, err := New(level)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger
}
