package logging

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/vaultblog/internal/logfields"
)

// LogContext holds run-scoped attributes carried on a context.
type LogContext struct {
	RunID   string
	Stage   string
	Trigger string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRunID adds a generation run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	lc := FromContext(ctx)
	lc.RunID = runID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := FromContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithTrigger records what started the run (cli, startup, event, resync).
func WithTrigger(ctx context.Context, trigger string) context.Context {
	lc := FromContext(ctx)
	lc.Trigger = trigger
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext returns the LogContext stored on ctx, or the zero value.
func FromContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func (lc LogContext) attrs() []slog.Attr {
	var attrs []slog.Attr
	if lc.RunID != "" {
		attrs = append(attrs, logfields.RunID(lc.RunID))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Trigger != "" {
		attrs = append(attrs, slog.String("trigger", lc.Trigger))
	}
	return attrs
}

// ContextHandler decorates records logged with a context carrying a
// LogContext, so slog.InfoContext picks up run_id and stage automatically.
type ContextHandler struct {
	slog.Handler
}

// Handle implements slog.Handler.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := FromContext(ctx).attrs(); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name)}
}
