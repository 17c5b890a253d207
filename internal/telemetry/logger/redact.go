// Package logger provides structured logging for Samus.
package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// ValueKey is the attribute key under which stored values are logged.
const ValueKey = "value"

// sensitiveKeyPatterns mark attribute keys whose values are always hidden.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
}

const redactedValue = "***REDACTED***"

type redactor struct {
	logValues bool
}

func (r redactor) redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = r.redact(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	if a.Key == ValueKey && !r.logValues {
		return slog.String(a.Key, MaskValue(a.Value.String()))
	}

	if IsSensitiveKey(a.Key) && a.Value.String() != "" {
		return slog.String(a.Key, redactedValue)
	}

	return a
}

// MaskValue hides a stored value, keeping only its length.
func MaskValue(v string) string {
	if v == "" {
		return v
	}
	return "<" + strconv.Itoa(len(v)) + " bytes>"
}

// IsSensitiveKey checks if a key name suggests secret content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
