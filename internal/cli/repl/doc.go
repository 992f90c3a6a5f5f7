// Package repl provides an interactive shell over a single table.
//
//   - repl.go: read-eval-print loop and command dispatch
//   - completer.go: prefix completion used for unknown-command hints
//   - history.go: command history with optional file persistence
package repl
