// Package logging builds the zap logger used by the runtime and its tools.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Mode selects the logger implementation.
type Mode string

const (
	// ModeNop discards everything
	ModeNop Mode = "nop"
	// ModeDevelopment logs human readable lines to stderr
	ModeDevelopment Mode = "development"
	// ModeProduction logs JSON to stderr
	ModeProduction Mode = "production"
)

// Config selects and tunes the logger.
type Config struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// New builds a logger for cfg. An empty mode means development.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	var zc zap.Config
	switch Mode(strings.ToLower(cfg.Mode)) {
	case ModeNop:
		return zap.NewNop(), nil
	case ModeDevelopment, "":
		zc = zap.NewDevelopmentConfig()
	case ModeProduction:
		zc = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unknown log mode %q (want nop, development or production)", cfg.Mode)
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Must is like New but falls back to a no-op logger on error.
func Must(cfg Config) *zap.Logger {
	logger, err := New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
