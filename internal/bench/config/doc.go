// Package config defines the configuration of the tsmap stress harness.
//
//   - spec.go: the configuration structure and its koanf tags
//   - default.go: default values
//   - verify.go: validation
package config
