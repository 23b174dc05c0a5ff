// Package config loads vitae's server and CLI configuration.
//
// Values come from three layers, later ones winning: built-in defaults, an
// optional TOML file, then VITAE_* environment variables. The CLI loads a
// .env file before any of this runs, so .env values arrive as environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/vitae/pkg/cache"
)

// Defaults.
const (
	DefaultAddr       = ":8080"
	DefaultRateLimit  = 5
	DefaultRateWindow = time.Hour
	DefaultTemplate   = "classic"
)

// Config is the complete runtime configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Cache     CacheConfig     `toml:"cache"`
	RateLimit RateLimitConfig `toml:"rate_limit"`

	// Skins replaces the built-in skin table with a TOML file.
	Skins string `toml:"skins"`

	// Template is used when a request does not name one.
	Template string `toml:"template"`

	// ClearOverlayOnMessage drops the tailoring overlay on the next
	// non-tailoring turn.
	ClearOverlayOnMessage bool `toml:"clear_overlay_on_message"`
}

// ServerConfig configures the HTTP boundary.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	JWTSecret string `toml:"jwt_secret"`
	// TrustProxy reads the client IP from X-Forwarded-For.
	TrustProxy bool `toml:"trust_proxy"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // none, file, redis, mongo
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisPass string   `toml:"redis_password"`
	RedisDB   int      `toml:"redis_db"`
	MongoURI  string   `toml:"mongo_uri"`
	MongoDB   string   `toml:"mongo_database"`
	TTL       Duration `toml:"ttl"`
	KeyPrefix string   `toml:"key_prefix"`
}

// RateLimitConfig bounds downloads per client per route.
type RateLimitConfig struct {
	Enabled bool     `toml:"enabled"`
	Limit   int      `toml:"limit"`
	Window  Duration `toml:"window"`
}

// Duration is a time.Duration written as a string ("1h", "90s") in TOML.
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Addr: DefaultAddr, TrustProxy: true},
		Cache: CacheConfig{
			Backend: cache.BackendNone,
			TTL:     Duration{cache.DefaultTTL},
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Limit:   DefaultRateLimit,
			Window:  Duration{DefaultRateWindow},
		},
		Template: DefaultTemplate,
	}
}

// Load builds a configuration from defaults, the TOML file at path (if
// path is non-empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config %s: unknown keys: %v", path, undecoded)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides fields from VITAE_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("VITAE_ADDR", &c.Server.Addr)
	str("VITAE_JWT_SECRET", &c.Server.JWTSecret)
	str("VITAE_CACHE", &c.Cache.Backend)
	str("VITAE_CACHE_DIR", &c.Cache.Dir)
	str("VITAE_REDIS_ADDR", &c.Cache.RedisAddr)
	str("VITAE_REDIS_PASSWORD", &c.Cache.RedisPass)
	str("VITAE_MONGO_URI", &c.Cache.MongoURI)
	str("VITAE_SKINS", &c.Skins)
	str("VITAE_TEMPLATE", &c.Template)

	if v, ok := lookup("VITAE_RATE_LIMIT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid VITAE_RATE_LIMIT: %w", err)
		}
		c.RateLimit.Limit = n
		c.RateLimit.Enabled = n > 0
	}
	if v, ok := lookup("VITAE_RATE_WINDOW"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid VITAE_RATE_WINDOW: %w", err)
		}
		c.RateLimit.Window = Duration{d}
	}
	if v, ok := lookup("VITAE_TRUST_PROXY"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid VITAE_TRUST_PROXY: %w", err)
		}
		c.Server.TrustProxy = b
	}
	return nil
}

// Validate checks value ranges and backend requirements.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config error: 'server.addr' is required")
	}
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("config error: redis cache requires 'cache.redis_addr'")
		}
	case cache.BackendMongo:
		if c.Cache.MongoURI == "" {
			return fmt.Errorf("config error: mongo cache requires 'cache.mongo_uri'")
		}
	default:
		return fmt.Errorf("config error: unknown cache backend %q (must be one of: none, file, redis, mongo)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("config error: 'cache.ttl' must be non-negative")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Limit < 1 {
			return fmt.Errorf("config error: 'rate_limit.limit' must be at least 1")
		}
		if c.RateLimit.Window.Duration <= 0 {
			return fmt.Errorf("config error: 'rate_limit.window' must be positive")
		}
	}
	if c.Skins != "" {
		if _, err := os.Stat(c.Skins); err != nil {
			return fmt.Errorf("config error: skins file: %w", err)
		}
	}
	if strings.TrimSpace(c.Template) == "" {
		c.Template = DefaultTemplate
	}
	return nil
}

// CacheSettings converts the cache section for cache.Open.
func (c *Config) CacheSettings() cache.Settings {
	return cache.Settings{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPass,
			DB:       c.Cache.RedisDB,
		},
		Mongo: cache.MongoConfig{
			URI:      c.Cache.MongoURI,
			Database: c.Cache.MongoDB,
		},
	}
}
