// Package localserver provides a Unix socket server for local management.
//
// Each connection carries one command line; the response uses the same
// framing as the text protocol and ends with the sentinel:
//
//   - status: key count, open connections, uptime and version
//   - loglevel [level]: show or change the log level
//   - reload: reload the configuration file
//
// Access is controlled by file system permissions on the socket.
package localserver
