// Package logging builds the process-wide zap logger and provides
// sanitization helpers so Honeycomb API keys never reach log output.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a zap logger for the given environment and level.
// Local environments get the human-readable development encoder; everything
// else logs production JSON. An unparseable level falls back to info.
//
// When the MCP server runs on the stdio transport, logs must not be written
// to stdout because stdout carries the JSON-RPC stream. Pass stderrOnly=true
// in that mode.
func New(env, level string, stderrOnly bool) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "local" || env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	if stderrOnly {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
