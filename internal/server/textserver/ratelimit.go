package textserver

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTimeout is how long an unused limiter is kept. Its bucket
// is full again long before that, so dropping it loses no state.
const limiterIdleTimeout = time.Minute

// limiterRegistry hands out one token bucket per client IP. Connections
// from the same IP share a limiter; limiters no connection holds are
// evicted after limiterIdleTimeout.
type limiterRegistry struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	perSec    int
	now       func() time.Time
	lastSweep time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	refs     int
	lastUsed time.Time
}

func newLimiterRegistry(perSec int) *limiterRegistry {
	return &limiterRegistry{
		limiters: make(map[string]*limiterEntry),
		perSec:   perSec,
		now:      time.Now,
	}
}

// acquire returns the limiter for ip, creating it on first use. Every
// acquire must be paired with a release. Burst equals the per-second
// rate.
func (r *limiterRegistry) acquire(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= limiterIdleTimeout {
		r.sweep(now)
	}

	e, ok := r.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(r.perSec), r.perSec)}
		r.limiters[ip] = e
	}
	e.refs++
	e.lastUsed = now
	return e.limiter
}

// release marks one holder of ip's limiter as done.
func (r *limiterRegistry) release(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.limiters[ip]; ok {
		e.refs--
		e.lastUsed = r.now()
	}
}

// sweep drops unheld limiters idle for limiterIdleTimeout. Callers hold mu.
func (r *limiterRegistry) sweep(now time.Time) {
	for ip, e := range r.limiters {
		if e.refs <= 0 && now.Sub(e.lastUsed) >= limiterIdleTimeout {
			delete(r.limiters, ip)
		}
	}
	r.lastSweep = now
}

func (r *limiterRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}
