// Package logging builds the logr.Logger used for diagnostics. Report lines
// meant for the user are printed by the CLI; logs go to stderr and stay quiet
// unless verbosity is raised.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-logr/logr"
)

// New returns a logger writing text records to w. Verbosity 0 logs info and
// errors; each extra level enables logr V(n) records.
func New(w io.Writer, verbosity int) logr.Logger {
	if verbosity < 0 {
		verbosity = 0
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		// logr V(n) maps to slog level -n.
		Level: slog.Level(-verbosity),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return logr.FromSlogHandler(handler)
}

// IntoContext stores logger in ctx.
func IntoContext(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// FromContext returns the logger stored in ctx, or a discarding logger.
func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}
