// Package ratelimit provides per-client admission control for the API
// route prefix. Each client key owns a token bucket sized to the
// configured ceiling, refilled over the configured window, so a client
// that burns its budget is rejected until the window has elapsed.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client

	limit rate.Limit
	burst int

	idleTimeout time.Duration
	done        chan struct{}
}

// New creates a limiter admitting at most requests per window for each
// client key. The janitor goroutine evicts clients idle for a full
// window; Stop tears it down.
func New(requests int, window time.Duration) *Limiter {
	l := &Limiter{
		clients:     make(map[string]*client),
		limit:       rate.Every(window / time.Duration(requests)),
		burst:       requests,
		idleTimeout: window,
		done:        make(chan struct{}),
	}

	go l.janitor()

	return l
}

// Allow reports whether the client identified by key may proceed, and
// consumes one token if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}

	c.lastSeen = time.Now()

	return c.limiter.Allow()
}

func (l *Limiter) Stop() {
	close(l.done)
}

func (l *Limiter) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mu.Lock()
			for key, c := range l.clients {
				if time.Since(c.lastSeen) > l.idleTimeout {
					delete(l.clients, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
