package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig bounds requests per source address.
type RateLimiterConfig struct {
	// Max requests allowed per Window. It is also the burst size.
	Max    int
	Window time.Duration
	// CleanupInterval controls how often idle addresses are forgotten.
	CleanupInterval time.Duration
}

type addrLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter applies one global token bucket per client address.
type RateLimiter struct {
	config   RateLimiterConfig
	limit    rate.Limit
	mu       sync.Mutex
	limiters map[string]*addrLimiter
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter starts a limiter and its background cleanup loop.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Max < 1 {
		config.Max = 1
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = config.Window
	}

	rl := &RateLimiter{
		config:   config,
		limit:    rate.Limit(float64(config.Max) / config.Window.Seconds()),
		limiters: make(map[string]*addrLimiter),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the cleanup loop.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware rejects requests over the limit with 429 and a Retry-After hint.
// It keys on RemoteAddr, so chi's RealIP must run first behind a proxy.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := clientAddr(r)
		if !rl.limiterFor(addr).Allow() {
			slog.Warn("rate limit exceeded", slog.String("ip_address", addr))
			writeRateLimitResponse(w, rl.limit)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Len reports how many addresses are currently tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) limiterFor(addr string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if al, ok := rl.limiters[addr]; ok {
		al.lastAccess = time.Now()
		return al.limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.config.Max)
	rl.limiters[addr] = &addrLimiter{limiter: limiter, lastAccess: time.Now()}
	return limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup forgets addresses idle for longer than a full window, by which
// point their bucket has refilled anyway.
func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for addr, al := range rl.limiters {
		if now.Sub(al.lastAccess) > rl.config.Window {
			delete(rl.limiters, addr)
		}
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeRateLimitResponse(w http.ResponseWriter, limit rate.Limit) {
	retryAfter := int(math.Ceil(1.0 / float64(limit)))
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "Too many requests from this IP, please try again later.",
	})
}
