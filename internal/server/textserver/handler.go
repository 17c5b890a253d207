package textserver

import (
	"context"
	"errors"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/samus-go/internal/core/domain"
	"github.com/yndnr/samus-go/internal/telemetry/logger"
	"github.com/yndnr/samus-go/internal/telemetry/metric"
	"github.com/yndnr/samus-go/pkg/lineproto"
)

// Store is the key-value store requests are executed against.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl int64) (string, error)
	Delete(ctx context.Context, key string) (string, error)
}

// readError marks a failure reading from the client.
type readError struct{ err error }

func (e *readError) Error() string { return "read request: " + e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

// writeError marks a failure writing to the client. Once a write fails
// the response stream is considered broken and no sentinel is attempted.
type writeError struct{ err error }

func (e *writeError) Error() string { return "write response: " + e.err.Error() }
func (e *writeError) Unwrap() error { return e.err }

// Handler runs the request/response exchange of one connection.
type Handler struct {
	store        Store
	metrics      *metric.Registry
	limiters     *limiterRegistry
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewHandler creates a Handler over store. A rateLimit above zero
// throttles each client IP to that many requests per second.
func NewHandler(store Store, metrics *metric.Registry, cfg *Config) *Handler {
	h := &Handler{
		store:        store,
		metrics:      metrics,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
	if cfg.RateLimit > 0 {
		h.limiters = newLimiterRegistry(cfg.RateLimit)
	}
	return h
}

// Serve processes every request line the client sends and terminates
// the response stream with the sentinel. The request is read until the
// client half-closes its side, even after processing has stopped, so
// the connection is never closed with unread input.
//
// The returned error is what ended processing early, if anything: a
// domain error (already reported to the client as an error line), a
// read error, a write error or a context error. It is meant for logging.
func (h *Handler) Serve(ctx context.Context, c *Conn) error {
	q := newRequestQueue()
	go h.readRequests(c, q)

	err := h.process(ctx, c, q)
	q.stop()

	if werr := h.respondEnd(c, err); werr != nil {
		// The client is gone; unblock the reader instead of draining.
		_ = c.Close()
		<-q.exited
		if errors.As(err, new(*writeError)) {
			return err
		}
		return errors.Join(err, werr)
	}

	<-q.exited
	return err
}

// respondEnd writes the error line for a domain error and the sentinel.
// Nothing is written after a write failure.
func (h *Handler) respondEnd(c *Conn, err error) error {
	var werr *writeError
	if errors.As(err, &werr) {
		return werr
	}

	if domain.IsDomainError(err, "") {
		if e := lineproto.WriteError(c.bw, domain.ClientMessage(err)); e != nil {
			return &writeError{err: e}
		}
	}
	return h.terminate(c)
}

// process executes queued lines until the request ends or a request
// fails.
func (h *Handler) process(ctx context.Context, c *Conn, q *requestQueue) error {
	var limiter *rate.Limiter
	if h.limiters != nil {
		ip := c.remoteIP()
		limiter = h.limiters.acquire(ip)
		defer h.limiters.release(ip)
	}

	for {
		line, err := q.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, lineproto.ErrLineTooLong) {
				return domain.ErrRequestTooLong.WithCause(err)
			}
			return &readError{err: err}
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}

		value, err := h.execute(ctx, line)
		if err != nil {
			return err
		}

		if err := c.setWriteDeadline(h.writeTimeout); err != nil {
			return &writeError{err: err}
		}
		if err := lineproto.WriteValue(c.bw, value); err != nil {
			return &writeError{err: err}
		}
		// Batch responses while more requests are already buffered.
		if q.empty() {
			if err := c.bw.Flush(); err != nil {
				return &writeError{err: err}
			}
		}
	}
}

// readRequests feeds request lines into q until the client half-closes
// or reading fails. Once processing stops, remaining input is discarded.
func (h *Handler) readRequests(c *Conn, q *requestQueue) {
	defer close(q.exited)

	for {
		if err := c.setReadDeadline(h.readTimeout); err != nil {
			q.finish(err)
			return
		}

		line, err := lineproto.ReadLine(c.br)
		if err != nil {
			q.finish(err)
			if errors.Is(err, lineproto.ErrLineTooLong) {
				h.discard(c)
			}
			return
		}

		if !q.push(line) {
			h.discard(c)
			return
		}
	}
}

// discard reads and drops input until EOF, a read error or
// maxDiscardBytes.
func (h *Handler) discard(c *Conn) {
	buf := make([]byte, 32*1024)
	total := 0
	for total < maxDiscardBytes {
		if err := c.setReadDeadline(h.readTimeout); err != nil {
			return
		}
		n, err := c.br.Read(buf)
		total += n
		if err != nil {
			return
		}
	}
}

// execute parses one line and runs it against the store.
func (h *Handler) execute(ctx context.Context, line string) (string, error) {
	req, err := lineproto.ParseRequest(line)
	if err != nil {
		h.metrics.CommandsTotal.WithLabelValues("invalid", metric.ResultError).Inc()
		return "", err
	}

	start := time.Now()

	var value string
	switch req.Action {
	case lineproto.ActionGet:
		value, err = h.store.Get(ctx, req.Key)
	case lineproto.ActionSet:
		value, err = h.store.Set(ctx, req.Key, req.Value, req.TTL)
	case lineproto.ActionDelete:
		value, err = h.store.Delete(ctx, req.Key)
	}

	h.metrics.ObserveCommand(req.Action.String(), time.Since(start).Seconds(), err)

	log := logger.L(ctx)
	if err != nil {
		log.Debug("command failed",
			"action", req.Action.String(),
			"key", req.Key,
			"code", domain.GetErrorCode(err))
		return "", err
	}
	log.Debug("command executed",
		"action", req.Action.String(),
		"key", req.Key,
		logger.ValueKey, value)
	return value, nil
}

// terminate writes the sentinel and flushes.
func (h *Handler) terminate(c *Conn) error {
	if err := c.setWriteDeadline(h.writeTimeout); err != nil {
		return &writeError{err: err}
	}
	if err := lineproto.WriteSentinel(c.bw); err != nil {
		return &writeError{err: err}
	}
	if err := c.bw.Flush(); err != nil {
		return &writeError{err: err}
	}
	return nil
}
