package connection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/yndnr/samus-go/pkg/lineproto"
)

// DefaultTimeout bounds a whole exchange when the context has no
// deadline.
const DefaultTimeout = 10 * time.Second

// ServerError is a failure the server reported with an error line.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// TextClient talks to the line-protocol server.
type TextClient struct {
	addr    string
	timeout time.Duration
}

// NewTextClient creates a client for addr. A zero timeout uses
// DefaultTimeout.
func NewTextClient(addr string, timeout time.Duration) *TextClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TextClient{addr: addr, timeout: timeout}
}

// Addr returns the server address.
func (c *TextClient) Addr() string {
	return c.addr
}

// Exchange sends lines on a fresh connection, half-closes it and reads
// the response stream up to the sentinel. The response is returned even
// when the server reported an error line.
func (c *TextClient) Exchange(ctx context.Context, lines []string) (*lineproto.Response, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	bw := bufio.NewWriter(conn)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return nil, fmt.Errorf("send request: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if err := closeWrite(conn); err != nil {
		return nil, fmt.Errorf("half-close: %w", err)
	}

	resp, err := lineproto.ReadResponse(conn)
	if err != nil {
		return resp, fmt.Errorf("read response: %w", err)
	}
	return resp, nil
}

// Do runs a single request and returns its value. A server-reported
// error is returned as *ServerError.
func (c *TextClient) Do(ctx context.Context, req lineproto.Request) (string, error) {
	line, err := lineproto.FormatRequest(req)
	if err != nil {
		return "", err
	}

	resp, err := c.Exchange(ctx, []string{line[:len(line)-1]})
	if err != nil {
		return "", err
	}
	if resp.Failed() {
		return "", &ServerError{Message: resp.Err}
	}
	if len(resp.Values) != 1 {
		return "", fmt.Errorf("expected 1 response line, got %d", len(resp.Values))
	}
	return resp.Values[0], nil
}

func (c *TextClient) dial(ctx context.Context) (net.Conn, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.addr, err)
	}
	_ = conn.SetDeadline(time.Now().Add(c.timeout))
	return conn, nil
}

type closeWriter interface {
	CloseWrite() error
}

func closeWrite(conn net.Conn) error {
	cw, ok := conn.(closeWriter)
	if !ok {
		return errors.New("connection does not support half-close")
	}
	return cw.CloseWrite()
}

// Session is a long-lived connection that sends one request at a time
// and reads its single response line.
type Session struct {
	conn net.Conn
	br   *bufio.Reader
	bw   *bufio.Writer
}

// ErrSessionClosed is returned once the server has terminated the
// response stream.
var ErrSessionClosed = errors.New("session closed by server")

// OpenSession connects to the server for interactive use.
func (c *TextClient) OpenSession(ctx context.Context) (*Session, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	// Interactive sessions wait on the user, not the server.
	_ = conn.SetDeadline(time.Time{})
	return &Session{
		conn: conn,
		br:   bufio.NewReader(conn),
		bw:   bufio.NewWriter(conn),
	}, nil
}

// Send writes one request line and reads the response line. An error
// line is returned as *ServerError; the server then ends the stream and
// the session is no longer usable.
func (s *Session) Send(line string) (string, error) {
	if _, err := s.bw.WriteString(line + "\n"); err != nil {
		return "", err
	}
	if err := s.bw.Flush(); err != nil {
		return "", err
	}

	resp, err := lineproto.ReadLine(s.br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrSessionClosed
		}
		return "", err
	}
	if msg, ok := strings.CutPrefix(resp, lineproto.ErrorPrefix); ok {
		return "", &ServerError{Message: msg}
	}
	return resp, nil
}

// Close ends the session. The server replies with the sentinel which is
// drained before the connection is closed.
func (s *Session) Close() error {
	if err := closeWrite(s.conn); err == nil {
		_ = s.conn.SetReadDeadline(time.Now().Add(time.Second))
		_, _ = io.Copy(io.Discard, s.br)
	}
	return s.conn.Close()
}

