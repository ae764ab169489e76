package log

import (
	"context"
	"io"
	stdlog "log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// GetLogger returns a stdr logger writing to stderr and sets its verbosity.
// Set v to 0 for info level messages, 1 for debug messages and 2 for trace
// level messages. Any other verbosity defaults to 0.
func GetLogger(v int) logr.Logger {
	return NewLogger(os.Stderr, v)
}

// NewLogger is GetLogger writing to w.
func NewLogger(w io.Writer, v int) logr.Logger {
	logger := stdr.New(stdlog.New(w, "", stdlog.LstdFlags)).WithName("ctrdrbg")
	if v > 2 || v < 0 {
		v = 0
		logger.Info("Invalid verbosity, setting logger to display info level messages only.")
	}
	stdr.SetVerbosity(v)

	return logger
}

// ContextWithLogger returns a context carrying logger.
func ContextWithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// FromContext returns the logger held by ctx, or a fresh stderr logger if
// there is none. The fallback leaves the global verbosity untouched. A
// non-empty name is appended to the logger name.
func FromContext(ctx context.Context, name string) logr.Logger {
	logger, err := logr.FromContext(ctx)
	if err != nil {
		logger = stdr.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags)).WithName("ctrdrbg")
	}

	if name != "" {
		return logger.WithName(name)
	}
	return logger
}
