package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"pet-feeding-ranking/internal/platform/logger"

	"golang.org/x/time/rate"
)

const DefaultCleanupInterval = 5 * time.Minute

type RateLimiterConfig struct {
	// PerMinute <= 0 desactiva el límite.
	PerMinute       int
	Burst           int
	CleanupInterval time.Duration
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter limita por IP de cliente (usar después de chimw.RealIP).
type RateLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration
	log   logger.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewRateLimiter(cfg RateLimiterConfig, log logger.Logger) *RateLimiter {
	if log == nil {
		log = logger.Nop()
	}
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.PerMinute
	}

	rl := &RateLimiter{
		limit:   rate.Limit(float64(cfg.PerMinute) / 60.0),
		burst:   burst,
		ttl:     2 * interval,
		log:     log,
		clients: make(map[string]*clientLimiter),
		stopCh:  make(chan struct{}),
	}
	if cfg.PerMinute > 0 {
		go rl.cleanupLoop(interval)
	}
	return rl
}

func (rl *RateLimiter) Enabled() bool {
	return rl.limit > 0
}

// Stop frena la limpieza en segundo plano. Se puede llamar más de una vez.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if !rl.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.limiterFor(ip).Allow() {
			rl.log.Warn("rate limit exceeded", map[string]any{
				"client_ip": ip,
				"path":      r.URL.Path,
			})
			writeRateLimited(w, rl.limit)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) ClientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if c, ok := rl.clients[ip]; ok {
		c.lastAccess = now
		return c.limiter
	}
	c := &clientLimiter{
		limiter:    rate.NewLimiter(rl.limit, rl.burst),
		lastAccess: now,
	}
	rl.clients[ip] = c
	return c.limiter
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
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

// cleanup borra clientes sin actividad por más de 2 intervalos.
func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, c := range rl.clients {
		if now.Sub(c.lastAccess) > rl.ttl {
			delete(rl.clients, ip)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// chimw.RealIP deja la IP sin puerto
		return r.RemoteAddr
	}
	return host
}

// Retry-After = segundos hasta que se repone un token.
func writeRateLimited(w http.ResponseWriter, limit rate.Limit) {
	retry := int(math.Ceil(1.0 / float64(limit)))
	if retry < 1 {
		retry = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retry))
	http.Error(w, "too many requests", http.StatusTooManyRequests)
}
