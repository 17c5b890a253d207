package connection

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/yndnr/samus-go/pkg/lineproto"
)

// SocketClient sends commands to the local admin socket.
type SocketClient struct {
	path    string
	timeout time.Duration
}

// NewSocketClient creates a new socket client.
func NewSocketClient(socketPath string, timeout time.Duration) *SocketClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SocketClient{path: socketPath, timeout: timeout}
}

// Execute sends one command and returns its response lines. A reported
// error is returned as *ServerError.
func (c *SocketClient) Execute(ctx context.Context, cmd string) ([]string, error) {
	var d net.Dialer
	dctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := d.DialContext(dctx, "unix", c.path)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.path, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	if _, err := io.WriteString(conn, cmd+"\n"); err != nil {
		return nil, fmt.Errorf("send command: %w", err)
	}

	resp, err := lineproto.ReadResponse(conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.Failed() {
		return nil, &ServerError{Message: resp.Err}
	}
	return resp.Values, nil
}
