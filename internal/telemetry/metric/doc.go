// Package metric provides Prometheus metrics for tsmap.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: registry, operation counters and latency histograms
//   - collector.go: a collector that reads table statistics on scrape
//
// Metrics include:
//
//   - tsmap_ops_total{op,outcome}: completed operations by hit or miss
//   - tsmap_op_duration_seconds{op}: operation latency including lock wait
//   - tsmap_table_*: size, capacity, op counter and chain shape of each
//     registered table
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
