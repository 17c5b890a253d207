// Package main provides the entry point for samus-server.
//
// samus-server serves an in-memory key-value store over a line-oriented
// TCP protocol:
//
//	GET <key>
//	SET <key> <value> <ttl>
//	DELETE <key>
//
// Each request is answered with one line; the response stream of a
// connection ends with the __TERM__ sentinel. The store starts with a
// single seed entry (test_key = test_value) unless configured otherwise.
//
// Configuration comes from an optional YAML file, SAMUS_* environment
// variables and command-line flags, in that order of precedence.
//
// Usage:
//
//	samus-server [--config FILE] [--port 6666] [--log-level debug]
package main
