package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// clientTTL is how long an idle client's bucket is kept.
	clientTTL = 3 * time.Minute
	// cleanupInterval is how often idle buckets are swept.
	cleanupInterval = time.Minute
)

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewRateLimiter allows perSecond requests per client with the given burst.
// Idle clients are forgotten by a sweeper that stops when ctx is done.
func NewRateLimiter(ctx context.Context, perSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
	}
	go rl.sweep(ctx)
	return rl
}

func (rl *RateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.forgetIdle()
		case <-ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) forgetIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, c := range rl.clients {
		if rl.now().Sub(c.lastSeen) > clientTTL {
			delete(rl.clients, ip)
		}
	}
}

// Allow takes a token from ip's bucket.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		c = &rateLimitClient{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = rl.now()
	return c.limiter.AllowN(c.lastSeen, 1)
}

// Middleware answers 429 with an empty body once a client's bucket is
// empty. The client is identified by r.RemoteAddr, so chi's RealIP
// middleware must run first when the server sits behind a proxy.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
