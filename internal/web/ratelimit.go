package web

import (
	"errors"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/JonMunkholm/roster/internal/config"
	"golang.org/x/time/rate"
)

var errRateLimited = errors.New("rate limit exceeded")

// RateLimiterConfig holds per-IP token bucket settings.
type RateLimiterConfig struct {
	GeneralRate     rate.Limit
	GeneralBurst    int
	UploadRate      rate.Limit
	UploadBurst     int
	CleanupInterval time.Duration
}

// RateLimiterConfigFrom converts per-minute limits to token bucket settings.
// The burst equals the per-minute allowance; cleanup uses the default interval.
func RateLimiterConfigFrom(cfg config.RateLimitConfig) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:  rate.Limit(float64(cfg.RequestsPerMinute) / 60.0),
		GeneralBurst: cfg.RequestsPerMinute,
		UploadRate:   rate.Limit(float64(cfg.UploadLimit) / 60.0),
		UploadBurst:  cfg.UploadLimit,
	}
}

type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterSet is one tier of per-IP limiters.
type limiterSet struct {
	name  string
	rate  rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*ipLimiter
}

func newLimiterSet(name string, r rate.Limit, burst int) *limiterSet {
	return &limiterSet{
		name:     name,
		rate:     r,
		burst:    burst,
		limiters: make(map[string]*ipLimiter),
	}
}

func (ls *limiterSet) get(ip string) *rate.Limiter {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if l, ok := ls.limiters[ip]; ok {
		l.lastAccess = time.Now()
		return l.limiter
	}

	l := &ipLimiter{
		limiter:    rate.NewLimiter(ls.rate, ls.burst),
		lastAccess: time.Now(),
	}
	ls.limiters[ip] = l
	return l.limiter
}

func (ls *limiterSet) expire(ttl time.Duration) {
	now := time.Now()

	ls.mu.Lock()
	defer ls.mu.Unlock()
	for ip, l := range ls.limiters {
		if now.Sub(l.lastAccess) > ttl {
			delete(ls.limiters, ip)
		}
	}
}

func (ls *limiterSet) len() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.limiters)
}

// RateLimiter limits requests per client IP. Uploads have their own,
// stricter tier on top of the general one.
type RateLimiter struct {
	config  RateLimiterConfig
	general *limiterSet
	upload  *limiterSet

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter creates a RateLimiter and starts its cleanup loop.
// A non-positive CleanupInterval selects five minutes.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	rl := &RateLimiter{
		config:  cfg,
		general: newLimiterSet("general", cfg.GeneralRate, cfg.GeneralBurst),
		upload:  newLimiterSet("upload", cfg.UploadRate, cfg.UploadBurst),
		stopCh:  make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// GeneralMiddleware limits every request.
func (rl *RateLimiter) GeneralMiddleware() func(http.Handler) http.Handler {
	return rl.middleware(rl.general)
}

// UploadMiddleware limits uploads.
func (rl *RateLimiter) UploadMiddleware() func(http.Handler) http.Handler {
	return rl.middleware(rl.upload)
}

func (rl *RateLimiter) middleware(set *limiterSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !set.get(ip).Allow() {
				slog.Warn("rate limit exceeded", "ip", ip, "limit_type", set.name)
				w.Header().Set("Retry-After", retryAfter(set.rate))
				respondError(w, r, errRateLimited, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops limiters idle for more than two cleanup intervals.
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	rl.general.expire(ttl)
	rl.upload.expire(ttl)
}

// retryAfter is the seconds until one token is refilled, at least 1.
func retryAfter(r rate.Limit) string {
	if r <= 0 {
		return "60"
	}
	sec := int(math.Ceil(1.0 / float64(r)))
	if sec < 1 {
		sec = 1
	}
	return strconv.Itoa(sec)
}

// clientIP is RemoteAddr without the port. TrustedRealIP has already
// replaced RemoteAddr when the request came through a trusted proxy.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
