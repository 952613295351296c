package log

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// RunIDKey is the attribute key holding the run identifier.
const RunIDKey = "run_id"

// runIDContextKey is the context key for the run identifier.
type runIDContextKey struct{}

// WithRunID returns a context carrying the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDContextKey{}, id)
}

// RunIDFromContext returns the run identifier stored in ctx, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDContextKey{}).(string)
	return id, ok && id != ""
}

// RunHandler wraps an slog.Handler to decorate records for a run.
// It appends the run identifier found in the record's context and
// abbreviates the user's home directory in path attributes, so logs
// can be shared without leaking the account layout.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Library code only needs a *slog.Logger and a context
type RunHandler struct {
	// handler is the underlying slog handler that receives decorated records.
	handler slog.Handler

	// home is the home directory replaced by "~" in path attributes.
	// Empty disables abbreviation.
	home string
}

// NewRunHandler creates a new RunHandler wrapping the given handler.
// If handler is nil, the returned RunHandler will use slog.Default().Handler().
func NewRunHandler(handler slog.Handler) *RunHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &RunHandler{handler: handler, home: home}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *RunHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle decorates the record and passes it to the underlying handler.
func (h *RunHandler) Handle(ctx context.Context, r slog.Record) error {
	decorated := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		decorated.AddAttrs(h.rewriteAttr(a))
		return true
	})

	if id, ok := RunIDFromContext(ctx); ok {
		decorated.AddAttrs(slog.String(RunIDKey, id))
	}

	return h.handler.Handle(ctx, decorated)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *RunHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &RunHandler{handler: h.handler.WithAttrs(rewritten), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *RunHandler) WithGroup(name string) slog.Handler {
	return &RunHandler{handler: h.handler.WithGroup(name), home: h.home}
}

// rewriteAttr abbreviates path attributes, recursively handling groups.
func (h *RunHandler) rewriteAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewritten[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	}

	if a.Value.Kind() == slog.KindString && isPathKey(a.Key) {
		return slog.String(a.Key, abbreviateHome(a.Value.String(), h.home))
	}
	return a
}

// isPathKey reports whether an attribute key names a filesystem path.
func isPathKey(key string) bool {
	key = strings.ToLower(key)
	return key == "path" || key == "dir" ||
		strings.HasSuffix(key, "_path") || strings.HasSuffix(key, "_dir")
}

// abbreviateHome replaces a leading home directory in path with "~".
func abbreviateHome(path, home string) string {
	if home == "" || home == "/" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home) && len(path) > len(home) && os.IsPathSeparator(path[len(home)]) {
		return "~" + path[len(home):]
	}
	return path
}
