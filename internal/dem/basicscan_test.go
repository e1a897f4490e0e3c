package dem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicExhaustiveScanFindsFlatTerrainCrossing(t *testing.T) {
	e := wgs84()
	const elev = 1000.0
	const targetLat, targetLon = 0.25, 0.35
	cache, err := NewTilesCache(flatElevationUpdater(elev, 1.0, 13), 16, false)
	require.NoError(t, err)
	algo := NewBasicExhaustiveScan(cache)

	position, los := aboveTarget(e, targetLat, targetLon, 600000)
	result, err := algo.Intersection(e, position, los, targetLon)
	require.NoError(t, err)
	assert.InDelta(t, elev, result.Altitude, 1.0)
	assert.InDelta(t, targetLat, result.Latitude, 1e-9)
	assert.InDelta(t, targetLon, result.Longitude, 1e-9)
}

func TestBasicExhaustiveScanAgreesWithDuvenhageOnUnevenTerrain(t *testing.T) {
	e := wgs84()
	const targetLat, targetLon = -0.15, 0.4
	updater := TileUpdaterFunc(func(lat, lon float64, out UpdatableTile) error {
		const size = 9
		const step = 1.0
		minLat := targetLat - step/2
		minLon := targetLon - step/2
		cellStep := step / float64(size-1)
		if err := out.SetGeometry(minLat, minLon, cellStep, cellStep, size, size); err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				elev := 500.0 + 50.0*float64(i) - 20.0*float64(j)
				if err := out.Set(i, j, elev); err != nil {
					return err
				}
			}
		}
		return nil
	})

	cacheA, err := NewTilesCache(updater, 4, false)
	require.NoError(t, err)
	cacheB, err := NewTilesCache(updater, 4, false)
	require.NoError(t, err)

	duvenhage := NewDuvenhage(cacheA, false)
	scan := NewBasicExhaustiveScan(cacheB)

	position, los := aboveTarget(e, targetLat, targetLon, 600000)
	want, err := duvenhage.Intersection(e, position, los, targetLon)
	require.NoError(t, err)
	got, err := scan.Intersection(e, position, los, targetLon)
	require.NoError(t, err)

	assert.InDelta(t, want.Altitude, got.Altitude, 1e-6)
	assert.InDelta(t, want.Latitude, got.Latitude, 1e-12)
	assert.InDelta(t, want.Longitude, got.Longitude, 1e-12)
}
