package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// SharedPrefix scopes keys written to shared backends.
const SharedPrefix = "cfgview:"

// Config selects and configures a backend.
type Config struct {
	Backend string
	Dir     string
	Redis   RedisConfig
	Mongo   MongoConfig
}

// Open creates the configured backend. An empty Backend means file.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileCache(cfg.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, cfg.Redis)
	case BackendMongo:
		return NewMongoCache(ctx, cfg.Mongo)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q (must be one of: file, redis, mongo, none)", ErrConfig, cfg.Backend)
	}
}

// Keyer returns the keyer for the backend: shared backends get keys
// prefixed with [SharedPrefix].
func (cfg Config) Keyer() Keyer {
	switch cfg.Backend {
	case BackendRedis, BackendMongo:
		return NewScopedKeyer(NewDefaultKeyer(), SharedPrefix)
	default:
		return NewDefaultKeyer()
	}
}
