package repl

import (
	"slices"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		prefix string
		want   []string
	}{
		{"G", []string{"GET"}},
		{"get", []string{"GET"}},
		{"d", []string{"DELETE"}},
		{"h", []string{"help", "history"}},
		{"x", nil},
	}
	for _, tt := range tests {
		if got := c.Complete(tt.prefix); !slices.Equal(got, tt.want) {
			t.Errorf("Complete(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}
