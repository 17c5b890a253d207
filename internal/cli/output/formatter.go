package output

import (
	"fmt"
	"io"
)

// Format represents the output format.
type Format string

const (
	FormatRaw   Format = "raw"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatRaw, FormatTable, FormatJSON, FormatYAML}

// Formatter formats data for output.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// Result is the outcome of one request.
type Result struct {
	Request string `json:"request" yaml:"request"`
	Value   string `json:"value" yaml:"value"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the server rejected the request.
func (r Result) Failed() bool {
	return r.Error != ""
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want raw, table, json or yaml)", s)
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatTable:
		return &TableFormatter{}
	default:
		return &RawFormatter{}
	}
}
