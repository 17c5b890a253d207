package lineproto

import (
	"errors"
	"testing"

	"github.com/yndnr/samus-go/internal/core/domain"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Request
	}{
		{"get", "GET test_key", Request{Action: ActionGet, Key: "test_key"}},
		{"delete", "DELETE missing", Request{Action: ActionDelete, Key: "missing"}},
		{"set", "SET a 1 5", Request{Action: ActionSet, Key: "a", Value: "1", TTL: 5}},
		{"set negative ttl", "SET a b -30", Request{Action: ActionSet, Key: "a", Value: "b", TTL: -30}},
		{"set max ttl", "SET a b 9223372036854775807", Request{Action: ActionSet, Key: "a", Value: "b", TTL: 9223372036854775807}},
		{"extra whitespace", "  GET \t k  ", Request{Action: ActionGet, Key: "k"}},
		{"crlf", "GET k\r", Request{Action: ActionGet, Key: "k"}},
		{"extra tokens ignored", "GET k extra tokens", Request{Action: ActionGet, Key: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest(tt.line)
			if err != nil {
				t.Fatalf("ParseRequest(%q) error = %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("ParseRequest(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseRequest_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"empty", "", domain.ErrInvalidAction},
		{"blank", "   ", domain.ErrInvalidAction},
		{"unknown", "FOO x", domain.ErrInvalidAction},
		{"lowercase keyword", "get k", domain.ErrInvalidAction},
		{"get without key", "GET", domain.ErrMissingArgument},
		{"delete without key", "DELETE", domain.ErrMissingArgument},
		{"set without value", "SET a", domain.ErrMissingArgument},
		{"set without ttl", "SET a b", domain.ErrMissingArgument},
		{"set bad ttl", "SET a b notanumber", domain.ErrUnparsableTTL},
		{"set float ttl", "SET a b 1.5", domain.ErrUnparsableTTL},
		{"set overflow ttl", "SET a b 9223372036854775808", domain.ErrUnparsableTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(tt.line)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseRequest(%q) error = %v, want %v", tt.line, err, tt.want)
			}
		})
	}
}

func TestFormatRequest(t *testing.T) {
	tests := []struct {
		req  Request
		want string
	}{
		{Request{Action: ActionGet, Key: "k"}, "GET k\n"},
		{Request{Action: ActionDelete, Key: "k"}, "DELETE k\n"},
		{Request{Action: ActionSet, Key: "a", Value: "1", TTL: 5}, "SET a 1 5\n"},
	}

	for _, tt := range tests {
		got, err := FormatRequest(tt.req)
		if err != nil {
			t.Fatalf("FormatRequest(%+v) error = %v", tt.req, err)
		}
		if got != tt.want {
			t.Errorf("FormatRequest(%+v) = %q, want %q", tt.req, got, tt.want)
		}

		// Encoded requests parse back to themselves.
		parsed, err := ParseRequest(got[:len(got)-1])
		if err != nil || parsed != tt.req {
			t.Errorf("ParseRequest(FormatRequest(%+v)) = (%+v, %v)", tt.req, parsed, err)
		}
	}
}

func TestFormatRequest_Rejects(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"empty key", Request{Action: ActionGet}, domain.ErrInvalidKey},
		{"key with space", Request{Action: ActionGet, Key: "a b"}, domain.ErrInvalidKey},
		{"value with newline", Request{Action: ActionSet, Key: "a", Value: "x\ny"}, domain.ErrInvalidValue},
		{"value with sentinel", Request{Action: ActionSet, Key: "a", Value: "__TERM__"}, domain.ErrInvalidValue},
		{"unknown action", Request{Action: "PING", Key: "a"}, domain.ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FormatRequest(tt.req); !errors.Is(err, tt.want) {
				t.Errorf("FormatRequest() error = %v, want %v", err, tt.want)
			}
		})
	}
}
