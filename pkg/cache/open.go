package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Settings selects and configures a backend.
type Settings struct {
	Backend string
	Dir     string // file backend; empty means DefaultDir
	Redis   RedisConfig
	Mongo   MongoConfig
}

// Open returns the backend named by s.Backend. An empty name selects none.
func Open(ctx context.Context, s Settings) (Cache, error) {
	switch s.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		dir := s.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, s.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		c, err := NewMongoCache(ctx, s.Mongo)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", s.Backend)
	}
}
