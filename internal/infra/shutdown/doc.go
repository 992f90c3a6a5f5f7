// Package shutdown coordinates graceful termination of the tsmap CLI.
//
// A Handler turns SIGINT and SIGTERM into context cancellation and runs
// registered cleanup hooks in reverse order, bounded by a timeout:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	ctx, stop := h.Watch(context.Background())
//	defer stop()
//	h.OnShutdown(server.Shutdown)
//	...
//	err := h.Shutdown()
package shutdown
