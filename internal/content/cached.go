package content

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrymomot/pdfmail/pkg/cache"
)

// Config controls content lookups.
type Config struct {
	// CacheTTL is how long an item stays cached. Zero disables caching.
	CacheTTL time.Duration `env:"CONTENT_CACHE_TTL" envDefault:"5m"`
}

// Cached fronts a Reader with a cache. Concurrent misses for the same id
// trigger a single lookup. Not-found results are not cached.
type Cached struct {
	next   Reader
	loader *cache.Loader[*Entity]
}

// NewCached wraps next with c.
func NewCached(next Reader, c cache.Cache[*Entity], ttl time.Duration) *Cached {
	return &Cached{
		next:   next,
		loader: cache.NewLoader(c, ttl),
	}
}

func (c *Cached) Get(ctx context.Context, id int64) (*Entity, error) {
	return c.loader.Get(ctx, cacheKey(id), func(ctx context.Context) (*Entity, error) {
		return c.next.Get(ctx, id)
	})
}

// Invalidate drops the cached copy of the item with id.
func (c *Cached) Invalidate(ctx context.Context, id int64) error {
	return c.loader.Forget(ctx, cacheKey(id))
}

func cacheKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
