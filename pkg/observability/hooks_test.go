package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnPlanComplete(ctx, 12, time.Millisecond)
	r.OnRenderStart(ctx, "classic", []string{"docx"})
	r.OnFormatComplete(ctx, "classic", "docx", 1024, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "docx")
	c.OnCacheMiss(ctx, "pdf")
	c.OnCacheSet(ctx, "html", 1024)

	s := NoopServerHooks{}
	s.OnResponse(ctx, "POST", "/api/generate-docx", 200, time.Second)
	s.OnRateLimited(ctx, "/api/generate-docx", "1.2.3.4")
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	h := NewLogHooks(log.New(&bytes.Buffer{}))
	SetRenderHooks(h)
	SetCacheHooks(h)
	SetServerHooks(h)
	if Render() != RenderHooks(h) || Cache() != CacheHooks(h) || Server() != ServerHooks(h) {
		t.Error("setters should install custom hooks")
	}

	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() should restore NoopRenderHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testRenderHooks{}
	SetRenderHooks(custom)
	SetRenderHooks(nil)
	if Render() != RenderHooks(custom) {
		t.Error("SetRenderHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnFormatComplete(ctx, "modern", "pdf", 2048, time.Millisecond, nil)
	h.OnCacheHit(ctx, "docx")
	h.OnRateLimited(ctx, "/api/generate-pdf", "9.9.9.9")

	out := buf.String()
	for _, want := range []string{"rendered", "format=pdf", "bytes=2048", "cache hit", "rate limited", "client=9.9.9.9"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testRenderHooks struct{ NoopRenderHooks }
