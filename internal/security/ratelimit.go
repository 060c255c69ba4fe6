package security

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter hands out one token-bucket limiter per client key
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
}

type visitor struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter allows burst requests per key, refilled evenly over window.
func NewRateLimiter(burst int, window time.Duration) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(burst)),
		burst:    burst,
		idleTTL:  window * 2,
	}
}

// Allow checks if a request from key should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiterFor(key, time.Now()).Allow()
}

func (rl *RateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastAccess = now
	return v.limiter
}

// Cleanup drops limiters that have been idle for two windows
func (rl *RateLimiter) Cleanup(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, v := range rl.visitors {
		if now.Sub(v.lastAccess) > rl.idleTTL {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

// GetClientIP extracts the client IP from the request
func GetClientIP(r *http.Request) string {
	// Behind a proxy the first X-Forwarded-For entry is the client
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
