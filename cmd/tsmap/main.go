// Package main provides the entry point for tsmap.
//
// tsmap drives a fixed-capacity concurrent hash table: it runs seeded
// stress workloads with optional Prometheus metrics, replays the bucket
// collision demo, and reports build information.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/tsmap-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
