// Package logging builds slog loggers for the CLI and server and adapts
// them to the printf-style Logger the scoring packages accept.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New returns a logger writing to w at level. Format is "text" or "json";
// a nil w writes to stderr.
func New(level slog.Level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Printf adapts a slog.Logger to Debugf/Infof/Warnf/Errorf.
type Printf struct {
	L *slog.Logger
}

// NewPrintf wraps l, tagging each record with component.
func NewPrintf(l *slog.Logger, component string) Printf {
	return Printf{L: l.With(slog.String("component", component))}
}

func (p Printf) Debugf(format string, args ...any) { p.L.Debug(fmt.Sprintf(format, args...)) }
func (p Printf) Infof(format string, args ...any)  { p.L.Info(fmt.Sprintf(format, args...)) }
func (p Printf) Warnf(format string, args ...any)  { p.L.Warn(fmt.Sprintf(format, args...)) }
func (p Printf) Errorf(format string, args ...any) { p.L.Error(fmt.Sprintf(format, args...)) }
