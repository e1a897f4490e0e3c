package dem

import (
	"math"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridUpdater serves a regular grid of 1-degree tiles, each rowsCols x
// rowsCols samples (5x5 from newGridUpdater), and counts how many distinct
// tiles it has allocated.
type gridUpdater struct {
	step       float64
	rowsCols   int
	allocCount int64
}

func newGridUpdater() *gridUpdater { return &gridUpdater{step: 1.0, rowsCols: 5} }

func (g *gridUpdater) UpdateTile(lat, lon float64, out UpdatableTile) error {
	minLat := math.Floor(lat)
	minLon := math.Floor(lon)
	cellStep := g.step / float64(g.rowsCols-1)
	if err := out.SetGeometry(minLat, minLon, cellStep, cellStep, g.rowsCols, g.rowsCols); err != nil {
		return err
	}
	atomic.AddInt64(&g.allocCount, 1)
	for i := 0; i < g.rowsCols; i++ {
		for j := 0; j < g.rowsCols; j++ {
			elev := 1000*(minLat+float64(i)*cellStep) + (minLon + float64(j)*cellStep)
			if err := out.Set(i, j, elev); err != nil {
				return err
			}
		}
	}
	return nil
}

func TestCacheHitsAvoidReallocation(t *testing.T) {
	updater := newGridUpdater()
	cache, err := NewTilesCache(updater, 12, false)
	require.NoError(t, err)

	// Touch all 12 tiles of a 3x4 grid.
	for latI := 0; latI < 3; latI++ {
		for lonI := 0; lonI < 4; lonI++ {
			_, err := cache.GetTile(float64(latI)+0.5, float64(lonI)+0.5)
			require.NoError(t, err)
		}
	}
	require.EqualValues(t, 12, updater.allocCount)

	rnd := rand.New(rand.NewSource(1))
	for n := 0; n < 10000; n++ {
		lat := rnd.Float64() * 3
		lon := rnd.Float64() * 4
		_, err := cache.GetTile(lat, lon)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 12, updater.allocCount)

	// A query outside the grid forces a 13th allocation and an eviction.
	_, err = cache.GetTile(10.5, 10.5)
	require.NoError(t, err)
	assert.EqualValues(t, 13, updater.allocCount)
	assert.Equal(t, 12, cache.Len())
}

func TestZipperDegradesToSameTileWhenNotNearSeam(t *testing.T) {
	// 9x9 samples: on a 5x5 tile every cell lies within seamMargin of a
	// border, so no query there is ever outside the seam.
	updater := &gridUpdater{step: 1.0, rowsCols: 9}
	cache, err := NewTilesCache(updater, 12, true)
	require.NoError(t, err)

	tile, err := cache.GetTile(0.5, 0.5)
	require.NoError(t, err)
	assert.False(t, cache.nearSeam(tile, 0.5, 0.5))
}

func TestZipperContinuityAcrossSeam(t *testing.T) {
	updater := newGridUpdater()
	cache, err := NewTilesCache(updater, 12, true)
	require.NoError(t, err)

	// Query right at the seam between tile (0,0) and tile (0,1): lon=1.0.
	left, err := cache.GetTile(0.5, 0.999)
	require.NoError(t, err)
	right, err := cache.GetTile(0.5, 1.0)
	require.NoError(t, err)

	leftElev, err := left.InterpolateElevation(0.5, 0.999)
	require.NoError(t, err)
	rightElev, err := right.InterpolateElevation(0.5, 1.0+1e-9)
	require.NoError(t, err)
	// Values straddling the seam from the real tiles should already be
	// close (same underlying elevation function); the zipper must not
	// introduce its own discontinuity beyond that.
	assert.InDelta(t, leftElev, rightElev, 2.0)
}

func TestZipperCornerMatchesParentBoundary(t *testing.T) {
	updater := newGridUpdater()
	cache, err := NewTilesCache(updater, 12, true)
	require.NoError(t, err)

	parent, err := cache.GetTile(0.5, 0.5)
	require.NoError(t, err)

	zip, err := cache.zipperFor(parent, 0.999, 0.999)
	require.NoError(t, err)

	// The zipper's own corner sample must equal the same-resolution
	// parent tile's boundary sample exactly (P4, same-resolution case).
	cornerLat := zip.MinLatitude + 2*zip.LatitudeStep
	cornerLon := zip.MinLongitude + 2*zip.LongitudeStep
	viaZipper := nearestElevation(zip, cornerLat, cornerLon)
	viaParent := nearestElevation(parent, cornerLat, cornerLon)
	assert.InDelta(t, viaParent, viaZipper, 1e-9)
}
