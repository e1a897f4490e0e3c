package dem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/rgerrors"
)

func wgs84() georef.Ellipsoid {
	return georef.Ellipsoid{Name: "WGS84", A: 6378137.0, F: 1 / 298.257223563, BodyFrame: "ITRF"}
}

// flatElevationUpdater serves tiles of a fixed elevation on a regular grid
// whose cell step is step/(size-1) radians.
func flatElevationUpdater(elev, step float64, size int) TileUpdaterFunc {
	return func(lat, lon float64, out UpdatableTile) error {
		minLat := math.Floor(lat/step) * step
		minLon := math.Floor(lon/step) * step
		cellStep := step / float64(size-1)
		if err := out.SetGeometry(minLat, minLon, cellStep, cellStep, size, size); err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				if err := out.Set(i, j, elev); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// aboveTarget builds a ray looking straight down the ellipsoid normal at
// (lat,lon), starting altMeters above it. A point on this ray at parameter k
// maps back to exactly (lat,lon,altMeters-k): the normal line is the
// defining curve of geodetic altitude, so there is no lateral drift at all.
func aboveTarget(e georef.Ellipsoid, lat, lon, altMeters float64) (position, los georef.Vector3) {
	footpoint := e.ToCartesian(georef.GeodeticPoint{Latitude: lat, Longitude: lon})
	zenith := georef.SurfaceNormal(georef.GeodeticPoint{Latitude: lat, Longitude: lon})
	position = footpoint.Add(zenith.Scale(altMeters))
	los = zenith.Scale(-1)
	return
}

func TestIgnoreDEMIntersectsEllipsoidSurface(t *testing.T) {
	e := wgs84()
	position, los := aboveTarget(e, 0.2, 0.3, 600000)

	result, err := (IgnoreDEM{}).Intersection(e, position, los, 0.3)
	require.NoError(t, err)
	assert.InDelta(t, 0, result.Altitude, 1e-3)
	assert.InDelta(t, 0.2, result.Latitude, 1e-9)
}

func TestConstantElevationOffsetsSurface(t *testing.T) {
	e := wgs84()
	position, los := aboveTarget(e, -0.1, 1.2, 600000)

	algo := ConstantElevation{H: 250}
	result, err := algo.Intersection(e, position, los, 1.2)
	require.NoError(t, err)
	assert.InDelta(t, 250, result.Altitude, 1e-2)

	elev, err := algo.Elevation(-0.1, 1.2)
	require.NoError(t, err)
	assert.Equal(t, 250.0, elev)
}

func TestDuvenhageFindsFlatTerrainCrossing(t *testing.T) {
	e := wgs84()
	const elev = 1000.0
	const targetLat, targetLon = 0.25, 0.35
	cache, err := NewTilesCache(flatElevationUpdater(elev, 1.0, 13), 16, false)
	require.NoError(t, err)
	algo := NewDuvenhage(cache, false)

	position, los := aboveTarget(e, targetLat, targetLon, 600000)
	result, err := algo.Intersection(e, position, los, targetLon)
	require.NoError(t, err)
	assert.InDelta(t, elev, result.Altitude, 1.0)
	assert.InDelta(t, targetLat, result.Latitude, 1e-9)
	assert.InDelta(t, targetLon, result.Longitude, 1e-9)
}

func TestDuvenhageRefineIntersectionFromCoarseGuess(t *testing.T) {
	e := wgs84()
	const elev = 500.0
	const targetLat, targetLon = -0.4, 0.6
	cache, err := NewTilesCache(flatElevationUpdater(elev, 1.0, 13), 16, false)
	require.NoError(t, err)
	algo := NewDuvenhage(cache, false)

	position, los := aboveTarget(e, targetLat, targetLon, 600000)
	coarse := georef.Normalize(georef.GeodeticPoint{
		Latitude: targetLat + 1e-6, Longitude: targetLon - 1e-6, Altitude: elev,
	}, targetLon)

	result, err := algo.RefineIntersection(e, position, los, targetLon, coarse)
	require.NoError(t, err)
	assert.InDelta(t, elev, result.Altitude, 1.0)
}

func TestDuvenhageFlatBodyVariantFindsCrossing(t *testing.T) {
	e := wgs84()
	const elev = 200.0
	const targetLat, targetLon = 0.05, -0.05
	cache, err := NewTilesCache(flatElevationUpdater(elev, 1.0, 9), 16, false)
	require.NoError(t, err)
	algo := NewDuvenhage(cache, true)

	position, los := aboveTarget(e, targetLat, targetLon, 600000)
	result, err := algo.Intersection(e, position, los, targetLon)
	require.NoError(t, err)
	assert.InDelta(t, elev, result.Altitude, 1.0)
}

func TestDuvenhageElevationQueriesCache(t *testing.T) {
	cache, err := NewTilesCache(flatElevationUpdater(42, 1.0, 5), 16, false)
	require.NoError(t, err)
	algo := NewDuvenhage(cache, false)

	elev, err := algo.Elevation(0.1, 0.1)
	require.NoError(t, err)
	assert.InDelta(t, 42, elev, 1e-9)
}

func TestEntryParameterFailsBehindSpacecraft(t *testing.T) {
	e := wgs84()
	position := e.ToCartesian(georef.GeodeticPoint{Latitude: 0, Longitude: 0, Altitude: 600000})
	los := georef.SurfaceNormal(georef.GeodeticPoint{Latitude: 0, Longitude: 0}) // pointing away from the ground

	_, err := entryParameter(e, position, los)
	require.Error(t, err)
	assert.True(t, rgerrors.Is(err, rgerrors.DEMEntryPointIsBehindSpacecraft))
}

func TestEntryParameterStartsAtZeroBelowShell(t *testing.T) {
	e := wgs84()
	position := e.ToCartesian(georef.GeodeticPoint{Latitude: 0, Longitude: 0, Altitude: 500})
	los := georef.SurfaceNormal(georef.GeodeticPoint{Latitude: 0, Longitude: 0}).Scale(-1)

	k, err := entryParameter(e, position, los)
	require.NoError(t, err)
	assert.Equal(t, 0.0, k)
}
