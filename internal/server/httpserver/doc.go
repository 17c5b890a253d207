// Package httpserver provides the observability HTTP server for Samus.
//
// It uses the Go standard library net/http and serves:
//
//   - GET /health: liveness with version and server time
//   - GET /ready: 200 once the text listener is bound, 503 otherwise
//   - GET /metrics: Prometheus exposition of the server registry
//
// The line protocol itself is not exposed over HTTP.
package httpserver
