package logger

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestRedact_ValueMaskedByDefault(t *testing.T) {
	l, buf := newBufferLogger(t, "info")

	l.Info("set", "key", "user:1", ValueKey, "hunter2")

	entry := decode(t, buf)
	if entry["key"] != "user:1" {
		t.Errorf("key = %v, want it logged verbatim", entry["key"])
	}
	if entry[ValueKey] != "<7 bytes>" {
		t.Errorf("value = %v, want masked length", entry[ValueKey])
	}
}

func TestRedact_LogValues(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf, LogValues: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("set", ValueKey, "hunter2")

	if entry := decode(t, &buf); entry[ValueKey] != "hunter2" {
		t.Errorf("value = %v, want verbatim", entry[ValueKey])
	}
}

func TestRedact_SensitiveKeys(t *testing.T) {
	r := redactor{}

	tests := []struct {
		attr slog.Attr
		want string
	}{
		{slog.String("password", "p"), redactedValue},
		{slog.String("auth_token", "t"), redactedValue},
		{slog.String("password", ""), ""},
		{slog.String("remote", "127.0.0.1"), "127.0.0.1"},
		{slog.String(ValueKey, ""), ""},
	}

	for _, tt := range tests {
		if got := r.redact(tt.attr).Value.String(); got != tt.want {
			t.Errorf("redact(%s=%q) = %q, want %q", tt.attr.Key, tt.attr.Value.String(), got, tt.want)
		}
	}

	group := slog.Group("req", slog.String(ValueKey, "abc"))
	out := r.redact(group).Value.Group()
	if out[0].Value.String() != "<3 bytes>" {
		t.Errorf("grouped value = %q, want masked", out[0].Value.String())
	}

	if got := r.redact(slog.Int64("ttl", 5)).Value.Int64(); got != 5 {
		t.Errorf("non-string attr changed: %d", got)
	}
}

func TestIsSensitiveKey(t *testing.T) {
	if !IsSensitiveKey("DB_PASSWORD") {
		t.Error("DB_PASSWORD should be sensitive")
	}
	if IsSensitiveKey("key") {
		t.Error("store keys are not sensitive")
	}
}
