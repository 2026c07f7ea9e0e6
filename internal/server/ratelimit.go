// Per-client token-bucket rate limiting for grid endpoints.

package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sitegrid/sitegrid/internal/server/dto"
)

// staleAfter is how long an idle bucket survives before cleanup removes it.
const staleAfter = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks one token bucket per client IP. Buckets for clients that
// have gone quiet are evicted periodically so the map cannot grow without
// bound (the key is attacker-controlled via X-Forwarded-For).
type Limiter struct {
	perMin int
	stop   chan struct{}

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewLimiter creates a limiter allowing perMin requests per minute per
// client. Zero disables limiting. Call Close to stop the eviction goroutine.
func NewLimiter(perMin int) *Limiter {
	l := &Limiter{
		perMin:  perMin,
		stop:    make(chan struct{}),
		buckets: make(map[string]*bucket),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether the client may proceed.
func (l *Limiter) Allow(key string) bool {
	if l.perMin <= 0 {
		return true
	}
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)}
		l.buckets[key] = b
	}
	b.lastSeen = time.Now()
	l.mu.Unlock()
	return b.limiter.Allow()
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(staleAfter)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup(time.Now())
		case <-l.stop:
			return
		}
	}
}

// cleanup removes buckets not seen since the stale threshold whose tokens
// have fully replenished.
func (l *Limiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	threshold := now.Add(-staleAfter)
	for key, b := range l.buckets {
		if b.lastSeen.Before(threshold) && b.limiter.Tokens() >= float64(l.perMin) {
			delete(l.buckets, key)
		}
	}
}

// Close stops the eviction goroutine.
func (l *Limiter) Close() {
	close(l.stop)
}

// Limit applies the limiter to a handler, keyed by client IP.
func Limit(l *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r)) {
				writeError(r.Context(), w, dto.RateLimited(60))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client address, honoring X-Forwarded-For from a
// fronting proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the originating client.
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
