package domain

import (
	"strings"
	"unicode"
)

// Sentinel is the token that terminates every response stream.
// Keys and values must never contain it.
const Sentinel = "__TERM__"

// Entry is a value stored under a key, together with its TTL attribute.
//
// Entries are immutable once constructed; an overwrite replaces the
// whole entry.
type Entry struct {
	Value string
	// TTL is caller-supplied seconds. It is stored, never enforced.
	TTL int64
}

// NewEntry constructs an Entry.
func NewEntry(value string, ttl int64) Entry {
	return Entry{Value: value, TTL: ttl}
}

// ValidateKey checks that a key can travel over the line protocol.
func ValidateKey(key string) error {
	if key == "" || !isFramingSafe(key) {
		return ErrInvalidKey.WithDetails(key)
	}
	return nil
}

// ValidateValue checks that a value can travel over the line protocol.
// Values are whitespace-free tokens and may not contain the sentinel.
func ValidateValue(value string) error {
	if value == "" || !isFramingSafe(value) {
		return ErrInvalidValue
	}
	return nil
}

func isFramingSafe(s string) bool {
	if strings.Contains(s, Sentinel) {
		return false
	}
	return strings.IndexFunc(s, unicode.IsSpace) < 0
}
