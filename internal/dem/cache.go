package dem

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/banshee-data/rugged/internal/rgerrors"
	"github.com/banshee-data/rugged/internal/rlog"
)

// seamMargin is how many cells from a tile border (inclusive) a query is
// considered "in the seam" and routed to zipper synthesis instead of being
// answered directly from the tile it landed in.
const seamMargin = 2

// cacheKey identifies a cached tile by the footprint the TileUpdater (or
// the zipper synthesizer) assigned it.
type cacheKey struct {
	minLat, minLon, latStep, lonStep float64
	rows, cols                       int
}

func keyOf(t *Tile) cacheKey {
	return cacheKey{t.MinLatitude, t.MinLongitude, t.LatitudeStep, t.LongitudeStep, t.Rows, t.Cols}
}

// TilesCache is a fixed-capacity LRU of Tiles keyed by their covered
// region. On a cache miss it invokes the TileUpdater; on a seam query it
// synthesizes a zipper tile bridging the surrounding tiles so intersection
// code always sees a continuous surface.
type TilesCache struct {
	updater     TileUpdater
	enableZip   bool
	capacity    int
	mu          sync.Mutex
	lru         *lru.Cache[cacheKey, *Tile]
	Metrics     *CacheMetrics
}

// NewTilesCache builds a cache of the given capacity. When enableZipper is
// true, capacity must be at least 9 (a tile and its 8 neighbors) or
// construction fails with TILE_WITHOUT_REQUIRED_NEIGHBORS_SELECTED.
func NewTilesCache(updater TileUpdater, capacity int, enableZipper bool) (*TilesCache, error) {
	if enableZipper && capacity < 9 {
		return nil, rgerrors.New(rgerrors.TileWithoutRequiredNeighbors, map[string]any{"capacity": capacity},
			"tile cache capacity %d is too small for zipper synthesis (need >= 9)", capacity)
	}
	metrics := NewCacheMetrics()
	c := &TilesCache{updater: updater, enableZip: enableZipper, capacity: capacity, Metrics: metrics}
	l, err := lru.NewWithEvict[cacheKey, *Tile](capacity, c.onEvict)
	if err != nil {
		return nil, rgerrors.New(rgerrors.InternalError, nil, "%v", err)
	}
	c.lru = l
	return c, nil
}

func (c *TilesCache) onEvict(key cacheKey, tile *Tile) {
	c.Metrics.Evictions.Inc()
	rlog.Logf("dem: evicted tile minLat=%g minLon=%g", key.minLat, key.minLon)
}

// GetTile returns a tile that either contains (lat,lon) in its interpolable
// interior, or, when the query falls in a seam, a synthesized zipper tile.
func (c *TilesCache) GetTile(lat, lon float64) (*Tile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tile, err := c.findOrLoad(lat, lon)
	if err != nil {
		return nil, err
	}

	if !c.enableZip || !c.nearSeam(tile, lat, lon) {
		return tile, nil
	}
	return c.zipperFor(tile, lat, lon)
}

// findOrLoad returns a cached tile covering (lat,lon), promoting it to
// most-recently-used, or fetches a new one via the TileUpdater.
func (c *TilesCache) findOrLoad(lat, lon float64) (*Tile, error) {
	for _, key := range c.lru.Keys() {
		tile, ok := c.lru.Peek(key)
		if !ok || !covers(tile, lat, lon) {
			continue
		}
		c.lru.Get(key) // promote to MRU without changing the value
		c.Metrics.Hits.Inc()
		return tile, nil
	}

	out := NewEmptyTile()
	if err := c.updater.UpdateTile(lat, lon, out); err != nil {
		return nil, err
	}
	if err := requireUsable(out); err != nil {
		return nil, rgerrors.New(rgerrors.NoDEMData, map[string]any{"lat": lat, "lon": lon},
			"no DEM data covering (%g,%g)", lat, lon)
	}
	if !covers(out, lat, lon) {
		return nil, rgerrors.New(rgerrors.NoDEMData, map[string]any{"lat": lat, "lon": lon},
			"tile updater returned a tile that does not cover (%g,%g)", lat, lon)
	}

	c.Metrics.Misses.Inc()
	c.lru.Add(keyOf(out), out)
	return out, nil
}

func covers(t *Tile, lat, lon float64) bool {
	i, j := t.LatitudeIndex(lat), t.LongitudeIndex(lon)
	return i >= 0 && i <= t.Rows-2 && j >= 0 && j <= t.Cols-2
}

func (c *TilesCache) nearSeam(t *Tile, lat, lon float64) bool {
	i, j := t.LatitudeIndex(lat), t.LongitudeIndex(lon)
	return i < seamMargin || i > t.Rows-2-seamMargin || j < seamMargin || j > t.Cols-2-seamMargin
}

// Len reports how many tiles (including zipper tiles) are currently cached.
func (c *TilesCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
