// Package logging configures the process-wide zap logger.
//
// Services log every degraded-but-recovered path (AI fallback content, a
// swallowed sync write, a subscribe stream ending) at Warn with a "source"
// field so operators can tell live data from fallback data in one query.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the logger for the given environment. Development gets console
// output with debug level; everything else gets production JSON.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	return cfg.Build()
}

// Source values for the "source" field on advisory/assistant log lines.
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)
