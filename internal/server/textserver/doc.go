// Package textserver provides the Samus line-protocol TCP server.
//
// The server binds one listening socket, accepts client connections and
// drives a connection handler over the shared store for each:
//
//   - server.go: listener lifecycle and the accept loop
//   - conn.go: buffered client connection wrapper
//   - handler.go: per-connection request processing and framing
//   - queue.go: request lines read ahead of processing
//   - ratelimit.go: optional per-IP throttling
//
// A connection's requests are processed in order. The first failing
// request produces an error line and ends processing for that
// connection. Whatever happened, the handler then writes the sentinel.
// The request keeps being read while responses are written, and after
// an error the rest of it is discarded, so the connection is only
// closed once the client has half-closed its side.
//
// Connections are served concurrently up to Config.MaxConnections.
// MaxConnections = 1 gives strictly sequential service: the next
// connection is not accepted until the previous one has been closed.
//
// I/O errors are isolated per connection: they are logged and counted,
// and the accept loop keeps running. Only a bind failure is fatal.
package textserver
