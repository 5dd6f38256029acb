// Package logger holds the process-wide zap logger used by fdc-seed commands.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// Init sets up logging for a CLI run. With --verbose the human-readable
// console encoder at debug level is used; without it, info-level JSON lines.
// Only the first call has any effect.
func Init(verbose bool) {
	once.Do(func() {
		var cfg zap.Config
		if verbose {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			cfg = zap.NewProductionConfig()
		}

		var err error
		globalLogger, err = cfg.Build()
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
	})
}

// Get returns the command logger. Library code called outside a command
// (tests, mostly) gets a no-op logger.
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Replace swaps in l until the returned func is called.
func Replace(l *zap.Logger) (restore func()) {
	prev := globalLogger
	globalLogger = l
	return func() { globalLogger = prev }
}

// Sync flushes the logger before the process exits.
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}
