package store

import (
	"context"
	"errors"
	"time"

	"github.com/jcmexdev/ecommerce-storefront/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
)

var _ ports.KV = (*Redis)(nil)

// Redis stores values through the shared Redis cache. A zero ttl keeps keys forever.
type Redis struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewRedis(c cache.Cache, ttl time.Duration) *Redis {
	return &Redis{cache: c, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.cache.Get(ctx, r.cache.GenerateKey("kv", key))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ports.ErrKeyNotFound
	}
	return data, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.cache.Set(ctx, r.cache.GenerateKey("kv", key), value, r.ttl)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.cache.Delete(ctx, r.cache.GenerateKey("kv", key))
}
