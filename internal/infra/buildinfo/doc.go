// Package buildinfo reports the version of the tsmap binary.
//
// Values come from ldflags when set:
//
//	go build -ldflags "-X github.com/yndnr/tsmap-go/internal/infra/buildinfo.Version=v1.0.0"
//
// and otherwise from the module and VCS data embedded by the Go toolchain.
package buildinfo
