// Package logger provides structured logging for tsmap tools.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: handler selection, level parsing, global default
//   - context.go: run and worker IDs carried through context.Context
//
// The hash table in pkg/tsmap never logs; only the stress harness and the
// CLI do.
package logger
