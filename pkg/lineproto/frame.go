package lineproto

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yndnr/samus-go/internal/core/domain"
)

// Sentinel terminates every response stream.
const Sentinel = domain.Sentinel

// ErrorPrefix starts every error line.
const ErrorPrefix = "Error: "

// MaxLineLen limits a single request or response line (64KB).
const MaxLineLen = 64 * 1024

var (
	// ErrLineTooLong is returned when a line exceeds MaxLineLen.
	ErrLineTooLong = errors.New("lineproto: line too long")

	// ErrMissingSentinel is returned when a response stream ends before
	// the sentinel.
	ErrMissingSentinel = errors.New("lineproto: response ended without sentinel")
)

// ReadLine reads one line and strips its "\n" terminator. A final line
// without terminator is returned as-is; io.EOF is only returned once no
// bytes are left.
func ReadLine(r *bufio.Reader) (string, error) {
	var buf []byte
	for {
		frag, err := r.ReadSlice('\n')
		buf = append(buf, frag...)
		if len(buf) > MaxLineLen+1 {
			return "", fmt.Errorf("%w: limit %d", ErrLineTooLong, MaxLineLen)
		}
		if err == nil {
			return string(buf[:len(buf)-1]), nil
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && len(buf) > 0 {
			return string(buf), nil
		}
		return "", err
	}
}

// WriteValue writes a success response line.
func WriteValue(w *bufio.Writer, value string) error {
	_, err := w.WriteString(value + "\n")
	return err
}

// WriteError writes an error response line.
func WriteError(w *bufio.Writer, msg string) error {
	_, err := w.WriteString(ErrorPrefix + msg + "\n")
	return err
}

// WriteSentinel writes the end-of-response marker. It is never followed
// by a newline.
func WriteSentinel(w *bufio.Writer) error {
	_, err := w.WriteString(Sentinel)
	return err
}

// Response is a decoded response stream.
type Response struct {
	// Values holds one entry per successful request, in order.
	Values []string
	// Err is the error message if the exchange ended with an error line.
	Err string
}

// Failed reports whether the server returned an error line.
func (r *Response) Failed() bool {
	return r.Err != ""
}

// ReadResponse reads a response stream up to and including the
// sentinel.
func ReadResponse(r io.Reader) (*Response, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	resp := &Response{}
	for {
		line, err := br.ReadString('\n')
		if len(line) > MaxLineLen+1 {
			return nil, fmt.Errorf("%w: limit %d", ErrLineTooLong, MaxLineLen)
		}

		done := false
		switch {
		case strings.HasSuffix(line, "\n"):
			line = line[:len(line)-1]
		case strings.HasSuffix(line, Sentinel):
			line = strings.TrimSuffix(line, Sentinel)
			done = true
		}

		// A bare sentinel carries no response line of its own.
		if !done || line != "" {
			if msg, isErr := strings.CutPrefix(line, ErrorPrefix); isErr {
				resp.Err = msg
			} else if done || err == nil {
				resp.Values = append(resp.Values, line)
			}
		}

		if done {
			return resp, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return resp, ErrMissingSentinel
			}
			return resp, err
		}
	}
}
