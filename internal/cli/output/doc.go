// Package output provides output formatting for the tsmap CLI.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned plain-text tables
//   - json.go: indented JSON
//   - yaml.go: YAML via gopkg.in/yaml.v3
//   - progress.go: a progress bar fed by stress operations
package output
