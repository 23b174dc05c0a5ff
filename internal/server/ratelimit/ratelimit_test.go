package ratelimit

import (
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(limit int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(Config{Enabled: true, Limit: limit, Window: window})
	l.now = clock.now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(5, time.Hour)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		info := l.Allow("docx:1.2.3.4")
		if !info.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if info.Remaining != 4-i {
			t.Errorf("request %d remaining = %d, want %d", i+1, info.Remaining, 4-i)
		}
	}
	info := l.Allow("docx:1.2.3.4")
	if info.Allowed {
		t.Error("6th request should be denied")
	}
	if info.RetryAfter != time.Hour {
		t.Errorf("RetryAfter = %v, want 1h", info.RetryAfter)
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Hour)
	defer l.Stop()

	if !l.Allow("docx:a").Allowed {
		t.Fatal("first docx request denied")
	}
	if !l.Allow("pdf:a").Allowed {
		t.Error("pdf route should have its own budget")
	}
	if !l.Allow("docx:b").Allowed {
		t.Error("other client should have its own budget")
	}
	if l.Allow("docx:a").Allowed {
		t.Error("second docx request from a should be denied")
	}
}

func TestLimiter_SlidingWindow(t *testing.T) {
	l, clock := newTestLimiter(2, time.Hour)
	defer l.Stop()

	l.Allow("k")
	clock.advance(30 * time.Minute)
	l.Allow("k")
	if l.Allow("k").Allowed {
		t.Fatal("third request inside the window should be denied")
	}

	clock.advance(30 * time.Minute)
	info := l.Allow("k")
	if !info.Allowed {
		t.Fatal("oldest request left the window; request should be allowed")
	}
	if l.Allow("k").Allowed {
		t.Error("window is full again")
	}
}

func TestLimiter_RejectedNotRecorded(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)
	defer l.Stop()

	l.Allow("k")
	for i := 0; i < 10; i++ {
		l.Allow("k")
	}
	clock.advance(time.Minute)
	if !l.Allow("k").Allowed {
		t.Error("rejected requests must not extend the window")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(Config{Enabled: false, Limit: 1, Window: time.Hour})
	defer l.Stop()
	for i := 0; i < 10; i++ {
		if !l.Allow("k").Allowed {
			t.Fatal("disabled limiter should allow everything")
		}
	}
}

func TestLimiter_Sweep(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)
	l.config.MaxKeys = 3
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("k%d", i))
	}
	clock.advance(2 * time.Minute)
	l.Allow("fresh")
	if n := l.Len(); n != 1 {
		t.Errorf("Len after sweep = %d, want 1", n)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(50, time.Hour)
	defer l.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("shared").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if allowed != 50 {
		t.Errorf("allowed = %d, want 50", allowed)
	}
}

func TestStopIdempotent(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	l.Stop()
	l.Stop()
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		forwarded  string
		trustProxy bool
		want       string
	}{
		{"remote addr", "10.0.0.1:5555", "", false, "10.0.0.1"},
		{"forwarded first entry", "10.0.0.1:5555", "203.0.113.7, 10.0.0.2", true, "203.0.113.7"},
		{"forwarded ignored without trust", "10.0.0.1:5555", "203.0.113.7", false, "10.0.0.1"},
		{"blank forwarded", "10.0.0.1:5555", " ", true, "10.0.0.1"},
		{"no port", "10.0.0.9", "", false, "10.0.0.9"},
		{"nothing", "", "", true, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/generate-docx", nil)
			r.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
