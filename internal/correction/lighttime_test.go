package correction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/rugged/internal/dem"
	"github.com/banshee-data/rugged/internal/frames"
	"github.com/banshee-data/rugged/internal/georef"
)

func wgs84() georef.Ellipsoid {
	return georef.Ellipsoid{Name: "WGS84", A: 6378137.0, F: 1 / 298.257223563, BodyFrame: "ITRF"}
}

func TestLightTimeCorrectedConvergesOnEllipsoidSurface(t *testing.T) {
	e := wgs84()
	gp := georef.GeodeticPoint{Latitude: 0.3, Longitude: -0.2, Altitude: 0}
	footpoint := e.ToCartesian(gp)
	zenith := georef.SurfaceNormal(gp)
	position := footpoint.Add(zenith.Scale(700000))
	los := zenith.Scale(-1)

	identity := frames.TimeStampedTransform{
		Translation: frames.TranslationState{},
		Rotation:    frames.RotationState{Q: georef.IdentityQuaternion},
	}

	result, err := LightTimeCorrected(e, dem.IgnoreDEM{}, identity, position, los, gp.Longitude)
	require.NoError(t, err)
	assert.InDelta(t, 0, result.Altitude, 1e-2)
	assert.InDelta(t, gp.Latitude, result.Latitude, 1e-8)
}

func TestLightTimeCorrectedShiftsTransformBackward(t *testing.T) {
	e := wgs84()
	gp := georef.GeodeticPoint{Latitude: 0, Longitude: 0, Altitude: 0}
	footpoint := e.ToCartesian(gp)
	zenith := georef.SurfaceNormal(gp)
	position := footpoint.Add(zenith.Scale(600000))
	los := zenith.Scale(-1)

	omega := georef.Vector3{X: 0, Y: 0, Z: 7.29e-5}
	rotating := frames.TimeStampedTransform{
		Date:        time.Time{},
		Translation: frames.TranslationState{},
		Rotation:    frames.RotationState{Q: georef.IdentityQuaternion, Omega: omega},
	}

	result, err := LightTimeCorrected(e, dem.IgnoreDEM{}, rotating, position, los, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, result.Altitude, 1e-2)
}
