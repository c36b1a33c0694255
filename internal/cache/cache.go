package cache

import (
	"context"
	"fmt"

	"github.com/codebyNJ/AIResearch-Agent/config"
)

// ContentCache memoizes fetched webpage content keyed by source URL. Entries
// live for the configured TTL; a zero TTL means process lifetime.
type ContentCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type Type string

const (
	InMemoryType Type = "inmemory"
	RedisType    Type = "redis"
)

// New creates a content cache based on configuration. The in-memory cache is
// the default.
func New(cfg config.CacheConfig) (ContentCache, error) {
	switch Type(cfg.Type) {
	case "", InMemoryType:
		return NewInMemory(cfg.TTL), nil
	case RedisType:
		return NewRedis(cfg.Redis, cfg.TTL)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}
