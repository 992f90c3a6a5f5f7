package logger

import "context"

type contextKey string

const (
	loggerKey   contextKey = "tsmap.logger"
	runIDKey    contextKey = "tsmap.run_id"
	workerIDKey contextKey = "tsmap.worker_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context, falling back to Default.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRunID tags the context with a stress run ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run ID, or "".
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithWorkerID tags the context with a stress worker index.
func WithWorkerID(ctx context.Context, worker int) context.Context {
	return context.WithValue(ctx, workerIDKey, worker)
}

// WorkerIDFromContext returns the worker index and whether one was set.
func WorkerIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(workerIDKey).(int)
	return id, ok
}

// L returns the context logger enriched with run_id and worker fields.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := RunIDFromContext(ctx); id != "" {
		l = l.With("run_id", id)
	}
	if w, ok := WorkerIDFromContext(ctx); ok {
		l = l.With("worker", w)
	}
	return l
}
