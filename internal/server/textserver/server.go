package textserver

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/semaphore"

	"github.com/yndnr/samus-go/internal/core/domain"
	"github.com/yndnr/samus-go/internal/telemetry/logger"
	"github.com/yndnr/samus-go/internal/telemetry/metric"
)

// Config holds the text server configuration.
type Config struct {
	// Address is the listen address. The default binds all interfaces.
	Address string
	// MaxConnections bounds concurrently served connections.
	// 1 serves connections strictly one after another.
	MaxConnections int
	// ReadTimeout bounds the wait for each request line (0 = none).
	ReadTimeout time.Duration
	// WriteTimeout bounds each response write (0 = none).
	WriteTimeout time.Duration
	// RateLimit is the maximum number of requests per second per IP.
	// Set to 0 to disable rate limiting.
	RateLimit int
}

// Default configuration values.
const (
	DefaultAddress        = "0.0.0.0:6666"
	DefaultMaxConnections = 1024
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:        DefaultAddress,
		MaxConnections: DefaultMaxConnections,
	}
}

// ErrBind wraps a failure to bind the listening socket.
var ErrBind = errors.New("textserver: bind failed")

const maxAcceptBackoff = time.Second

// Server is the line-protocol TCP server.
type Server struct {
	cfg     *Config
	handler *Handler
	logger  logger.Logger
	metrics *metric.Registry
	sem     *semaphore.Weighted

	mu      sync.Mutex
	ln      net.Listener
	conns   map[*Conn]struct{}
	running atomic.Bool
	active  atomic.Int64
	wg      sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new text server over store.
func New(cfg *Config, store Store, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = DefaultMaxConnections
	}

	s := &Server{
		cfg:   cfg,
		sem:   semaphore.NewWeighted(int64(cfg.MaxConnections)),
		conns: make(map[*Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Default()
	}
	if s.metrics == nil {
		s.metrics = metric.NewRegistry()
	}

	s.handler = NewHandler(store, s.metrics, cfg)
	return s
}

// Listen binds the listening socket. A failure here is fatal to startup.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBind, s.cfg.Address, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.running.Store(true)

	s.logger.Info("text server listening",
		"address", ln.Addr().String(),
		"max_connections", s.cfg.MaxConnections)
	return nil
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Serve(ctx); err != nil {
			s.logger.Error("text server stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Ready reports whether the server is accepting connections.
func (s *Server) Ready() bool {
	return s.running.Load()
}

// ActiveConnections returns the number of connections being served.
func (s *Server) ActiveConnections() int64 {
	return s.active.Load()
}

// Serve runs the accept loop until the listener is closed or ctx is
// done. Listen must have been called.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return errors.New("textserver: Serve called before Listen")
	}

	stop := context.AfterFunc(ctx, func() {
		s.running.Store(false)
		_ = ln.Close()
	})
	defer stop()

	var backoff time.Duration
	for {
		// Take a permit before accepting so that at most MaxConnections
		// connections are open at any time.
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil
		}

		c, err := ln.Accept()
		if err != nil {
			s.sem.Release(1)
			if !s.running.Load() || errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}

			backoff = nextBackoff(backoff)
			s.metrics.ConnectionErrors.WithLabelValues(metric.StageAccept).Inc()
			s.logger.Warn("accept failed, retrying", "error", err, "backoff", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		conn := newConn(c)
		s.track(conn, true)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.sem.Release(1)
			defer s.track(conn, false)
			s.serveConn(ctx, conn)
		}()
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	d *= 2
	if d > maxAcceptBackoff {
		d = maxAcceptBackoff
	}
	return d
}

func (s *Server) track(c *Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[c] = struct{}{}
	} else {
		delete(s.conns, c)
	}
}

// serveConn runs the handler for one connection and closes it. Errors
// never escape: they are logged and counted here.
func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	ctx = logger.WithConnID(ctx, newConnID())
	ctx = logger.WithLogger(ctx, s.logger.With("remote", c.RemoteAddr().String()))
	log := logger.L(ctx)

	s.active.Add(1)
	s.metrics.ConnectionsActive.Inc()
	s.metrics.ConnectionsTotal.Inc()
	defer func() {
		s.active.Add(-1)
		s.metrics.ConnectionsActive.Dec()
	}()

	log.Debug("connection accepted")

	err := s.handler.Serve(ctx, c)

	var (
		rerr *readError
		werr *writeError
	)
	switch {
	case err == nil:
		log.Debug("connection finished")
	case errors.As(err, &werr):
		s.metrics.ConnectionErrors.WithLabelValues(metric.StageWrite).Inc()
		log.Warn("connection dropped", "error", err)
	case domain.IsDomainError(err, ""):
		log.Debug("connection finished with request error",
			"code", domain.GetErrorCode(err),
			"error", err)
	case errors.As(err, &rerr):
		s.metrics.ConnectionErrors.WithLabelValues(metric.StageRead).Inc()
		log.Warn("connection read failed", "error", err)
	default:
		log.Debug("connection interrupted", "error", err)
	}
}

// Shutdown stops accepting connections and waits for in-flight ones.
// If ctx expires first, remaining connections are closed forcibly.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var closeErr error
	s.mu.Lock()
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			closeErr = err
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
		return closeErr
	case <-ctx.Done():
		s.mu.Lock()
		for c := range s.conns {
			_ = c.Close()
		}
		s.mu.Unlock()
		return ctx.Err()
	}
}

func newConnID() string {
	id, err := ulid.New(ulid.Now(), rand.Reader)
	if err != nil {
		return ""
	}
	return strings.ToLower(id.String())
}
