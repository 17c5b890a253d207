package textserver

import (
	"bufio"
	"net"
	"sync/atomic"
	"time"
)

// Conn represents a single client connection.
type Conn struct {
	netConn net.Conn
	br      *bufio.Reader
	bw      *bufio.Writer

	closed atomic.Bool
}

func newConn(c net.Conn) *Conn {
	return &Conn{
		netConn: c,
		br:      bufio.NewReader(c),
		bw:      bufio.NewWriter(c),
	}
}

// Close closes the underlying connection once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// RemoteAddr returns the client address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// remoteIP returns the client IP without port, or the full address if it
// cannot be split.
func (c *Conn) remoteIP() string {
	addr := c.RemoteAddr()
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

func (c *Conn) setReadDeadline(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return c.netConn.SetReadDeadline(time.Now().Add(d))
}

func (c *Conn) setWriteDeadline(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return c.netConn.SetWriteDeadline(time.Now().Add(d))
}
