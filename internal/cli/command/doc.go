// Package command provides the tsmap CLI commands.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: root command, global flags, config and logger setup
//   - stress.go: concurrent workload against a table, with metrics
//   - demo.go: the bucket collision walkthrough
//   - shell.go: interactive session over one table
//   - config.go: show and validate the effective configuration
//   - version.go: build information
//
// Commands write to the app's Writer so they can be exercised in tests.
package command
