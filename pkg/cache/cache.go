package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a key-value cache with per-entry TTL.
//
// TTL passed to Set: positive expires after that duration, zero uses the
// cache default, negative never expires.
type Cache[V any] interface {
	// Get returns ErrNotFound for missing or expired keys.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Codec converts values to bytes for backends that store bytes.
type Codec[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// JSON is the default Codec.
type JSON[V any] struct{}

func (JSON[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (JSON[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

// Loader reads through a Cache, collapsing concurrent misses for the same
// key into one call of the load function.
type Loader[V any] struct {
	cache Cache[V]
	group singleflight.Group
	ttl   time.Duration
}

// NewLoader wraps c. Loaded values are stored with ttl.
func NewLoader[V any](c Cache[V], ttl time.Duration) *Loader[V] {
	return &Loader[V]{cache: c, ttl: ttl}
}

// Get returns the cached value for key or calls load on a miss.
// Load errors are returned as is and nothing is cached. Cache read and
// write failures degrade to calling load.
func (l *Loader[V]) Get(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (V, error) {
	if v, err := l.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := l.group.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		_ = l.cache.Set(ctx, key, v, l.ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Forget drops key from the cache.
func (l *Loader[V]) Forget(ctx context.Context, key string) error {
	l.group.Forget(key)
	return l.cache.Delete(ctx, key)
}
