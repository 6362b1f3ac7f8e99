package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client IP and evicts idle ones.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	r        rate.Limit
	burst    int
	evictTTL time.Duration
	now      func() time.Time
}

func NewIPRateLimiter(rps float64, burst int, evictTTL time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		r:        rate.Limit(rps),
		burst:    burst,
		evictTTL: evictTTL,
		now:      time.Now,
	}
}

// Allow reports whether ip is within its rate limit.
func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rl.r, rl.burst)
		rl.limiters[ip] = l
	}
	rl.lastSeen[ip] = rl.now()
	return l.Allow()
}

// retryAfter is the whole number of seconds until one token refills.
func (rl *IPRateLimiter) retryAfter() int {
	if rl.r <= 0 {
		return 60
	}
	return int(math.Max(1, math.Ceil(1/float64(rl.r))))
}

// Evict drops limiters idle for longer than the eviction TTL and returns how many were removed.
func (rl *IPRateLimiter) Evict() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.evictTTL)
	removed := 0
	for ip, last := range rl.lastSeen {
		if last.Before(cutoff) {
			delete(rl.limiters, ip)
			delete(rl.lastSeen, ip)
			removed++
		}
	}
	return removed
}

// minEvictInterval bounds how often Run sweeps, whatever the TTL.
const minEvictInterval = time.Millisecond

// Run evicts idle limiters until stop is closed.
func (rl *IPRateLimiter) Run(stop <-chan struct{}) {
	interval := rl.evictTTL / 2
	if interval < minEvictInterval {
		interval = minEvictInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rl.Evict()
		}
	}
}

// RateLimit rejects requests over the per-IP limit with 429. chi's RealIP middleware should run first
// when the service sits behind a proxy.
func RateLimit(rl *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(ip); err == nil {
				ip = host
			}
			if !rl.Allow(ip) {
				w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
