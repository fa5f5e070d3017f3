package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/guttosm/etmarket/internal/apperr"
)

// client is a per-IP token bucket and the last time it was used.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP and forgets buckets
// idle for longer than idleTTL.
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

// NewIPRateLimiter allows rps requests per second per IP with the given burst.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		now:     time.Now,
	}
}

// Allow reports whether ip may make a request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// Evict drops buckets idle for longer than idleTTL and returns how many were removed.
func (l *IPRateLimiter) Evict() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for ip, cl := range l.clients {
		if now.Sub(cl.lastSeen) > l.idleTTL {
			delete(l.clients, ip)
			n++
		}
	}
	return n
}

// RateLimiter is a Gin middleware that limits requests per client IP.
//
// Behavior:
//   - Identifies clients by c.ClientIP().
//   - Sweeps idle buckets once a minute on the request path.
//   - If the bucket is empty, aborts with HTTP 429 and the standard error body.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RateLimiter(middleware.NewIPRateLimiter(5, 20)))
func RateLimiter(l *IPRateLimiter) gin.HandlerFunc {
	var (
		sweepMu   sync.Mutex
		lastSweep = l.now()
	)
	return func(c *gin.Context) {
		sweepMu.Lock()
		if l.now().Sub(lastSweep) > time.Minute {
			lastSweep = l.now()
			sweepMu.Unlock()
			l.Evict()
		} else {
			sweepMu.Unlock()
		}

		if !l.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			writeError(c, http.StatusTooManyRequests, &apperr.Error{Code: "RATE_LIMITED", Message: "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
