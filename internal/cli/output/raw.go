package output

import (
	"fmt"
	"io"

	"github.com/yndnr/samus-go/pkg/lineproto"
)

// RawFormatter prints results the way the server framed them, without
// the sentinel.
type RawFormatter struct{}

// Format writes one line per result. Failed results are printed as
// error lines.
func (f *RawFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Result:
		return writeRaw(w, v)
	case []Result:
		for _, r := range v {
			if err := writeRaw(w, r); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for _, line := range v {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

func writeRaw(w io.Writer, r Result) error {
	var err error
	if r.Failed() {
		_, err = fmt.Fprintln(w, lineproto.ErrorPrefix+r.Error)
	} else {
		_, err = fmt.Fprintln(w, r.Value)
	}
	return err
}
