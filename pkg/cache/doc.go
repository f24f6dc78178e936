// Package cache provides a generic TTL cache with in-memory and Redis
// backends, plus a [Loader] that reads through a cache and deduplicates
// concurrent misses with singleflight.
//
//	c := cache.NewMemory[content.Entity](cache.MemoryConfig{MaxEntries: 1000})
//	loader := cache.NewLoader[content.Entity](c, 5*time.Minute)
//	entity, err := loader.Get(ctx, "content:42", func(ctx context.Context) (content.Entity, error) {
//	    return store.Get(ctx, 42)
//	})
package cache
