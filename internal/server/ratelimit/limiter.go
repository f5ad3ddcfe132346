// Package ratelimit provides simple in-memory fixed-window counters.
// Good for single-instance setups; a distributed store would be needed for
// multi-instance deployments.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

type bucket struct {
	window time.Time
	count  int
}

// Limiter counts requests per key within fixed windows of length per,
// allowing at most limit requests per window.
type Limiter struct {
	mu    sync.Mutex
	data  map[string]bucket
	limit int
	per   time.Duration

	now func() time.Time // test seam
}

func NewLimiter(limit int, per time.Duration) *Limiter {
	return &Limiter{
		data:  make(map[string]bucket),
		limit: limit,
		per:   per,
		now:   time.Now,
	}
}

// Allow reports whether a request identified by key is within its rate
// limit, and records it if so. An empty key is always allowed.
func (l *Limiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	win := l.now().Truncate(l.per)
	b, ok := l.data[key]
	if !ok || b.window.Before(win) {
		l.data[key] = bucket{window: win, count: 1}
		return true
	}
	if b.count >= l.limit {
		return false
	}
	b.count++
	l.data[key] = b
	return true
}

// LoginKey builds the rate-limit key for a login attempt: client address
// plus the submitted email, so one address cannot burn another user's budget
// and one email cannot be hammered from one address.
func LoginKey(clientIP, email string) string {
	e := strings.TrimSpace(strings.ToLower(email))
	if e == "" {
		e = "unknown"
	}
	return clientIP + ":" + e
}
