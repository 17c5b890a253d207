package localserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/samus-go/internal/telemetry/logger"
	"github.com/yndnr/samus-go/pkg/lineproto"
)

// requestTimeout bounds how long a local client may take per exchange.
const requestTimeout = 5 * time.Second

// Server is the local management server on a Unix domain socket.
type Server struct {
	path    string
	handler *Handler
	logger  logger.Logger

	mu       sync.Mutex
	listener net.Listener
	running  atomic.Bool
	wg       sync.WaitGroup
}

// New creates a new local server.
func New(socketPath string, handler *Handler, l logger.Logger) *Server {
	if l == nil {
		l = logger.Default()
	}
	return &Server{
		path:    socketPath,
		handler: handler,
		logger:  l,
	}
}

// Listen creates the socket, replacing a stale one left by a previous
// run. The socket is only accessible by the owner.
func (s *Server) Listen() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return err
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		_ = ln.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	s.running.Store(true)

	s.logger.Info("local server listening", "path", s.path)
	return nil
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("localserver: Serve called before Listen")
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

// Start binds the socket and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Serve(ctx); err != nil {
			s.logger.Error("local server stopped", "error", err)
		}
	}()
	return nil
}

// Shutdown stops accepting connections, waits for active ones and
// removes the socket file.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var closeErr error
	s.mu.Lock()
	if s.listener != nil {
		closeErr = s.listener.Close()
		if errors.Is(closeErr, net.ErrClosed) {
			closeErr = nil
		}
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		_ = os.Remove(s.path)
		return closeErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleConnection serves one command per connection.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(requestTimeout))

	br := bufio.NewReader(conn)
	bw := bufio.NewWriter(conn)

	line, err := lineproto.ReadLine(br)
	if err != nil {
		s.logger.Debug("local command read failed", "error", err)
		return
	}

	if err := s.handler.Execute(ctx, bw, line); err != nil {
		s.logger.Debug("local command failed", "command", line, "error", err)
		_ = lineproto.WriteError(bw, err.Error())
	}
	_ = lineproto.WriteSentinel(bw)
	if err := bw.Flush(); err != nil {
		s.logger.Debug("local response write failed", "error", err)
	}
}
