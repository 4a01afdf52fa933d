// Package logger provides the process-wide logger used by every strata
// component. It wraps a zap SugaredLogger behind package-level functions so
// callers never carry a logger handle around.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the global logger instance. Initialized to a no-op logger at package
// load so packages can log before Initialize runs (e.g. in tests).
var L *zap.SugaredLogger

func init() {
	L = zap.NewNop().Sugar()
}

// Initialize configures the global logger. Logs always go to stderr: stdout
// is reserved for command output and, in MCP mode, the wire protocol.
func Initialize(verbose, jsonOutput bool) error {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	var core zapcore.Core
	if jsonOutput {
		cfg := zap.NewProductionEncoderConfig()
		core = zapcore.NewCore(
			zapcore.NewJSONEncoder(cfg),
			zapcore.AddSync(os.Stderr),
			level,
		)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = "" // terminal output stays calm, no timestamps
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg),
			zapcore.AddSync(os.Stderr),
			level,
		)
	}

	L = zap.New(core).Sugar()
	return nil
}

// Sync flushes buffered log entries. Safe to call on the no-op logger.
func Sync() {
	_ = L.Sync()
}

func Debugf(format string, args ...interface{}) { L.Debugf(format, args...) }

func Infof(format string, args ...interface{}) { L.Infof(format, args...) }

func Infow(msg string, keysAndValues ...interface{}) { L.Infow(msg, keysAndValues...) }

func Warnf(format string, args ...interface{}) { L.Warnf(format, args...) }

func Warnw(msg string, keysAndValues ...interface{}) { L.Warnw(msg, keysAndValues...) }

func Errorf(format string, args ...interface{}) { L.Errorf(format, args...) }
