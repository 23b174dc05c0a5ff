package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/vitae/pkg/cache"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	c := Defaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if c.Server.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", c.Server.Addr, DefaultAddr)
	}
	if !c.RateLimit.Enabled || c.RateLimit.Limit != 5 || c.RateLimit.Window.Duration != time.Hour {
		t.Errorf("RateLimit = %+v, want 5/hour", c.RateLimit)
	}
	if c.Cache.Backend != cache.BackendNone {
		t.Errorf("Cache.Backend = %q", c.Cache.Backend)
	}
	if c.ClearOverlayOnMessage {
		t.Error("overlay should persist by default")
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "vitae.toml", `
template = "modern"
clear_overlay_on_message = true

[server]
addr = "127.0.0.1:9000"

[cache]
backend = "file"
dir = "/tmp/vitae-cache"
ttl = "2h"

[rate_limit]
enabled = true
limit = 10
window = "30m"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != "127.0.0.1:9000" || c.Template != "modern" || !c.ClearOverlayOnMessage {
		t.Errorf("config = %+v", c)
	}
	if c.Cache.Backend != "file" || c.Cache.TTL.Duration != 2*time.Hour {
		t.Errorf("cache = %+v", c.Cache)
	}
	if c.RateLimit.Limit != 10 || c.RateLimit.Window.Duration != 30*time.Minute {
		t.Errorf("rate limit = %+v", c.RateLimit)
	}
	if s := c.CacheSettings(); s.Backend != "file" || s.Dir != "/tmp/vitae-cache" {
		t.Errorf("CacheSettings = %+v", s)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeFile(t, "vitae.toml", "colour = \"blue\"\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unknown keys") {
		t.Errorf("Load = %v, want unknown keys error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	c := Defaults()
	err := c.applyEnv(env(map[string]string{
		"VITAE_ADDR":        ":7000",
		"VITAE_JWT_SECRET":  "s3cret",
		"VITAE_CACHE":       "redis",
		"VITAE_REDIS_ADDR":  "localhost:6379",
		"VITAE_RATE_LIMIT":  "3",
		"VITAE_RATE_WINDOW": "10m",
		"VITAE_TRUST_PROXY": "true",
	}))
	if err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if c.Server.Addr != ":7000" || c.Server.JWTSecret != "s3cret" || !c.Server.TrustProxy {
		t.Errorf("server = %+v", c.Server)
	}
	if c.Cache.Backend != "redis" || c.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v", c.Cache)
	}
	if c.RateLimit.Limit != 3 || c.RateLimit.Window.Duration != 10*time.Minute {
		t.Errorf("rate limit = %+v", c.RateLimit)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestApplyEnvDisablesRateLimit(t *testing.T) {
	c := Defaults()
	if err := c.applyEnv(env(map[string]string{"VITAE_RATE_LIMIT": "0"})); err != nil {
		t.Fatal(err)
	}
	if c.RateLimit.Enabled {
		t.Error("limit 0 should disable rate limiting")
	}
}

func TestApplyEnvErrors(t *testing.T) {
	for _, kv := range [][2]string{
		{"VITAE_RATE_LIMIT", "many"},
		{"VITAE_RATE_WINDOW", "soon"},
		{"VITAE_TRUST_PROXY", "maybe"},
	} {
		c := Defaults()
		if err := c.applyEnv(env(map[string]string{kv[0]: kv[1]})); err == nil {
			t.Errorf("%s=%s should fail", kv[0], kv[1])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis" }, "redis_addr"},
		{"mongo without uri", func(c *Config) { c.Cache.Backend = "mongo" }, "mongo_uri"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, "unknown cache backend"},
		{"zero limit", func(c *Config) { c.RateLimit.Limit = 0 }, "rate_limit.limit"},
		{"zero window", func(c *Config) { c.RateLimit.Window = Duration{} }, "rate_limit.window"},
		{"missing skins", func(c *Config) { c.Skins = "/does/not/exist.toml" }, "skins file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}
