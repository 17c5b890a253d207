// Package metric provides Prometheus metrics for Samus.
//
// Metrics include:
//
//   - Commands processed, by action and result
//   - Command latency histograms
//   - Active and total client connections
//   - Connection I/O errors, by stage
//   - Number of keys in the store
//
// Each Registry owns its own *prometheus.Registry so tests and multiple
// servers in one process never collide. Metrics are exposed at /metrics
// by internal/server/httpserver.
package metric
