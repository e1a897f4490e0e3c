package dem

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CacheMetrics are the TilesCache's Prometheus counters. Each TilesCache
// gets its own private registry (rather than the global default one) so
// that constructing more than one cache in a process, or in a test binary,
// never panics on a duplicate metric registration — the same reasoning the
// gateway connection pool in the pack uses promauto for its own metrics.
type CacheMetrics struct {
	Registry        *prometheus.Registry
	Hits            prometheus.Counter
	Misses          prometheus.Counter
	Evictions       prometheus.Counter
	ZipperSynthesis prometheus.Counter
}

// NewCacheMetrics builds a fresh, privately registered set of counters.
func NewCacheMetrics() *CacheMetrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &CacheMetrics{
		Registry: reg,
		Hits: f.NewCounter(prometheus.CounterOpts{
			Name: "rugged_dem_tile_cache_hits_total",
			Help: "Tile cache lookups resolved without invoking the TileUpdater.",
		}),
		Misses: f.NewCounter(prometheus.CounterOpts{
			Name: "rugged_dem_tile_cache_misses_total",
			Help: "Tile cache lookups that invoked the TileUpdater.",
		}),
		Evictions: f.NewCounter(prometheus.CounterOpts{
			Name: "rugged_dem_tile_cache_evictions_total",
			Help: "Tiles evicted from the LRU to make room for a new one.",
		}),
		ZipperSynthesis: f.NewCounter(prometheus.CounterOpts{
			Name: "rugged_dem_tile_cache_zipper_syntheses_total",
			Help: "Zipper tiles synthesized to bridge a seam between neighbor tiles.",
		}),
	}
}
