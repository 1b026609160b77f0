// Package logging builds the process-wide zap logger used throughout
// procsched: one *zap.SugaredLogger constructed at startup and threaded
// through. Uses zap's console encoder rather than JSON, keeping a
// terse, scoped line style ("[procsched] ...") since this is a CLI tool
// a human watches, not a service emitting logs to a collector.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a development-style (human-readable, colorized level,
// caller-free) SugaredLogger. verbose enables debug-level output, used
// for the per-slice/per-poll detail the scheduling engines emit.
func New(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "" // scheduler timestamps are relative ms, not wall clock
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar().Named("procsched"), nil
}
