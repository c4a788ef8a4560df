package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	clientIdleAfter = time.Hour
	cleanupInterval = 30 * time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter gives each client a token bucket holding capacity requests
// that refills at capacity per window.
type RateLimiter struct {
	mu          sync.Mutex
	limit       rate.Limit
	burst       int
	interval    time.Duration
	clients     map[string]*client
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewRateLimiter starts a limiter and its idle-client cleanup loop
func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	interval := window / time.Duration(max(capacity, 1))
	rl := &RateLimiter{
		limit:       rate.Every(interval),
		burst:       capacity,
		interval:    interval,
		clients:     make(map[string]*client),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for id, c := range rl.clients {
		if now.Sub(c.lastSeen) > clientIdleAfter {
			delete(rl.clients, id)
		}
	}
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// Allow consumes one token for id
func (rl *RateLimiter) Allow(id string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[id]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[id] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// retryAfter is the number of whole seconds until a token is back
func (rl *RateLimiter) retryAfter() int {
	return max(1, int(math.Ceil(rl.interval.Seconds())))
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// RateLimit rejects requests over the client's budget with 429
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(limiter.retryAfter()))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
