package nasa

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/hazard-risk-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// TileCache stores tiles by path. Implementations expire entries after
// their own TTL.
type TileCache interface {
	Get(ctx context.Context, key string) (Tile, bool, error)
	Set(ctx context.Context, key string, tile Tile) error
}

// CachedTiles wraps a TileFetcher with a TileCache. Cache failures are
// logged and treated as misses.
type CachedTiles struct {
	inner   TileFetcher
	cache   TileCache
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCachedTiles creates a cache decorator around a tile fetcher.
func NewCachedTiles(inner TileFetcher, cache TileCache, logger *slog.Logger, metrics *observability.Metrics) *CachedTiles {
	return &CachedTiles{inner: inner, cache: cache, logger: logger, metrics: metrics}
}

func (c *CachedTiles) FetchTile(ctx context.Context, r TileRequest) (Tile, error) {
	r, err := r.Normalize()
	if err != nil {
		return Tile{}, err
	}
	key := r.Path()

	tile, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("tile cache read failed", "key", key, "error", err)
	}
	if ok {
		c.metrics.TileCache.WithLabelValues("hit").Inc()
		return tile, nil
	}
	c.metrics.TileCache.WithLabelValues("miss").Inc()

	tile, err = c.inner.FetchTile(ctx, r)
	if err != nil {
		return Tile{}, err
	}
	if err := c.cache.Set(ctx, key, tile); err != nil {
		c.logger.Warn("tile cache write failed", "key", key, "error", err)
	}
	return tile, nil
}

// ProxyPath fetches the tile named by a "{layer}/{date}/{resolution}/{z}/{y}/{x}.{format}" path.
func (c *CachedTiles) ProxyPath(ctx context.Context, path string) (Tile, error) {
	r, err := ParseTilePath(path)
	if err != nil {
		return Tile{}, err
	}
	return c.FetchTile(ctx, r)
}

// MemoryCache is a thread-safe in-process LRU of tiles with a fixed TTL.
type MemoryCache struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front is most recently used
}

type cachedTile struct {
	key     string
	value   Tile
	expires time.Time
}

// NewMemoryCache creates an LRU holding at most maxEntries tiles for ttl each.
func NewMemoryCache(maxEntries int, ttl time.Duration, clock clockwork.Clock) *MemoryCache {
	return &MemoryCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Tile, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return Tile{}, false, nil
	}
	ct := el.Value.(*cachedTile)
	if !c.clock.Now().Before(ct.expires) {
		c.evict(el)
		return Tile{}, false, nil
	}
	c.order.MoveToFront(el)
	return ct.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, tile Tile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.clock.Now().Add(c.ttl)
	if el, ok := c.entries[key]; ok {
		ct := el.Value.(*cachedTile)
		ct.value = tile
		ct.expires = expires
		c.order.MoveToFront(el)
		return nil
	}

	c.entries[key] = c.order.PushFront(&cachedTile{key: key, value: tile, expires: expires})
	for c.order.Len() > c.maxEntries {
		c.evict(c.order.Back())
	}
	return nil
}

// Len reports the number of cached entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *MemoryCache) evict(el *list.Element) {
	ct := c.order.Remove(el).(*cachedTile)
	delete(c.entries, ct.key)
}
