// Package logger provides structured logging for Samus.
//
// This package wraps log/slog:
//
//   - logger.go: Logger interface, configuration and dynamic levels
//   - context.go: context propagation of the logger and connection IDs
//   - redact.go: masking of stored values and secrets in log attributes
//
// Stored values are masked by default so that client data does not end
// up in logs; set Config.LogValues to log them verbatim.
package logger
