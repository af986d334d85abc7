package goschema

import (
	"io"
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() { logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil))) }

// SetLogger installs the logger used for non-fatal specification warnings.
// nil restores the default, which discards everything.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Store(l)
}

func log() *slog.Logger { return logger.Load() }
