package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string // file backend
	Redis   RedisConfig
	Prefix  string // key prefix, see RenderKeyer
}

// Open creates the cache and keyer described by opts.
func Open(ctx context.Context, opts Options) (Cache, Keyer, error) {
	keyer := NewKeyer(opts.Prefix)

	switch opts.Backend {
	case BackendNone:
		return NewNullCache(), keyer, nil
	case BackendFile, "":
		if opts.Dir == "" {
			return nil, nil, ErrNoDir
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, nil, err
		}
		return c, keyer, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, nil, err
		}
		return c, keyer, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// NullCache stores nothing; every Get is a miss. It backs `--no-cache` and
// stands in when the configured backend cannot be opened.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error     { return nil }
func (NullCache) Delete(context.Context, string) error                         { return nil }
func (NullCache) Close() error                                                 { return nil }

var _ Cache = NullCache{}
