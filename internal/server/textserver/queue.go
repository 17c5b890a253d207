package textserver

import (
	"sync"
)

const (
	// maxPendingBytes bounds request bytes read ahead of processing.
	// The reader waits once it is reached.
	maxPendingBytes = 32 << 20

	// maxDiscardBytes bounds how much input is read and dropped after
	// processing stops, before the connection is closed anyway.
	maxDiscardBytes = 64 << 20
)

// requestQueue hands request lines from the connection reader to the
// processing loop. Reading continues while responses are written, so a
// client that sends its whole request before reading never stalls the
// exchange.
type requestQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	lines   []string
	pending int
	err     error // set once reading ends; io.EOF for a clean half-close
	stopped bool  // processing ended; further lines are dropped

	exited chan struct{} // closed when the reader goroutine returns
}

func newRequestQueue() *requestQueue {
	q := &requestQueue{exited: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a line, waiting while too much input is buffered. It
// reports false once processing has stopped.
func (q *requestQueue) push(line string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for !q.stopped && q.pending >= maxPendingBytes {
		q.cond.Wait()
	}
	if q.stopped {
		return false
	}
	q.lines = append(q.lines, line)
	q.pending += len(line)
	q.cond.Broadcast()
	return true
}

// finish records why reading ended.
func (q *requestQueue) finish(err error) {
	q.mu.Lock()
	q.err = err
	q.mu.Unlock()
	q.cond.Broadcast()
}

// next returns the next line. Once the buffered lines are consumed it
// returns the error that ended reading.
func (q *requestQueue) next() (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.lines) == 0 && q.err == nil {
		q.cond.Wait()
	}
	if len(q.lines) == 0 {
		return "", q.err
	}

	line := q.lines[0]
	q.lines[0] = ""
	q.lines = q.lines[1:]
	q.pending -= len(line)
	q.cond.Broadcast()
	return line, nil
}

// empty reports whether no line is waiting.
func (q *requestQueue) empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines) == 0
}

// stop drops buffered lines and switches the reader to discarding.
func (q *requestQueue) stop() {
	q.mu.Lock()
	q.stopped = true
	q.lines = nil
	q.pending = 0
	q.mu.Unlock()
	q.cond.Broadcast()
}
