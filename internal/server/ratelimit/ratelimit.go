// Package ratelimit provides per-client request limiting over a sliding
// window.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Limit           int           // requests allowed per window
	Window          time.Duration // sliding window length
	CleanupInterval time.Duration // how often idle keys are dropped; 0 disables
	// MaxKeys triggers an inline sweep when exceeded; 0 disables.
	MaxKeys int
}

// DefaultConfig allows 5 requests per hour.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		Limit:           5,
		Window:          time.Hour,
		CleanupInterval: 5 * time.Minute,
		MaxKeys:         10000,
	}
}

// Info describes the outcome of one Allow call.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter records request timestamps per key and rejects a request when
// the key already has Limit requests inside the window.
type Limiter struct {
	config Config
	now    func() time.Time

	mu     sync.Mutex
	hits   map[string][]time.Time
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

// NewLimiter creates a limiter and starts its cleanup goroutine.
func NewLimiter(cfg Config) *Limiter {
	l := &Limiter{
		config: cfg,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
		stop:   make(chan struct{}),
	}
	if cfg.Enabled && cfg.CleanupInterval > 0 {
		l.ticker = time.NewTicker(cfg.CleanupInterval)
		go l.cleanup()
	}
	return l
}

// Allow records a request for key (typically "route:client") if it is
// within the limit. Rejected requests are not recorded.
func (l *Limiter) Allow(key string) Info {
	if !l.config.Enabled || l.config.Limit <= 0 {
		return Info{Allowed: true}
	}

	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	valid := l.prune(l.hits[key], now)
	if len(valid) >= l.config.Limit {
		l.hits[key] = valid
		return Info{
			Allowed:    false,
			Limit:      l.config.Limit,
			RetryAfter: valid[0].Add(l.config.Window).Sub(now),
		}
	}

	l.hits[key] = append(valid, now)
	if l.config.MaxKeys > 0 && len(l.hits) > l.config.MaxKeys {
		l.sweep(now)
	}
	return Info{
		Allowed:   true,
		Limit:     l.config.Limit,
		Remaining: l.config.Limit - len(valid) - 1,
	}
}

// prune drops timestamps that fell out of the window.
func (l *Limiter) prune(ts []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(ts) && now.Sub(ts[i]) >= l.config.Window {
		i++
	}
	return ts[i:]
}

// sweep deletes keys with no request inside the window. Callers hold mu.
func (l *Limiter) sweep(now time.Time) {
	for k, ts := range l.hits {
		if len(l.prune(ts, now)) == 0 {
			delete(l.hits, k)
		}
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

func (l *Limiter) cleanup() {
	for {
		select {
		case <-l.ticker.C:
			l.mu.Lock()
			l.sweep(l.now())
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() {
		if l.ticker != nil {
			l.ticker.Stop()
		}
		close(l.stop)
	})
}

// ClientIP returns the caller address: the first X-Forwarded-For entry when
// trustProxy is set, otherwise the connection's remote host. It returns
// "unknown" when neither is available.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
