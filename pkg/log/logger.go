// Package log wires log/slog output for the estimation loop. The driver
// emits per-trial diagnostics at Debug level; callers that want them call
// SetupLogger("debug") once at startup.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger installs a JSON slog handler as the default logger.
func SetupLogger(loglevel string) {
	SetupLoggerTo(loglevel, os.Stderr)
}

// SetupLoggerTo installs a JSON slog handler writing to w.
func SetupLoggerTo(loglevel string, w io.Writer) {
	ops := slog.HandlerOptions{
		Level: ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(w, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
}

// ToLogLevel converts a level name to a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
