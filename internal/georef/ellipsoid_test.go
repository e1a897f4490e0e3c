package georef

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wgs84() Ellipsoid {
	return Ellipsoid{Name: "WGS84", A: 6378137.0, F: 1.0 / 298.257223563, BodyFrame: "ITRF"}
}

func TestCartesianRoundTrip(t *testing.T) {
	e := wgs84()
	gp := GeodeticPoint{Latitude: 13.25667 * math.Pi / 180, Longitude: 123.685 * math.Pi / 180, Altitude: 2463}
	p := e.ToCartesian(gp)
	back := e.ToGeodetic(p)

	assert.InDelta(t, gp.Latitude, back.Latitude, 1e-12)
	assert.InDelta(t, gp.Longitude, back.Longitude, 1e-12)
	assert.InDelta(t, gp.Altitude, back.Altitude, 1e-6)
}

func TestPointOnGroundLiesOnRayAndSurface(t *testing.T) {
	e := wgs84()
	position := NewVector3(-3787079.6453602533, 5856784.405679551, 1655869.0582939098)
	los := NewVector3(0.5127552821932051, -0.8254313129088879, -0.2361041470463311).Normalize()

	ngp, err := e.PointOnGround(position, los, 123.685*math.Pi/180)
	require.NoError(t, err)

	p := e.ToCartesian(ngp.GeodeticPoint)
	a2, b2 := e.A2(), e.B2()
	surface := p.X*p.X/a2 + p.Y*p.Y/a2 + p.Z*p.Z/b2
	assert.InDelta(t, 1.0, surface, 1e-9)
}

func TestPointAtAltitudeConverges(t *testing.T) {
	e := wgs84()
	position := NewVector3(-3787079.6453602533, 5856784.405679551, 1655869.0582939098)
	los := NewVector3(0.5127552821932051, -0.8254313129088879, -0.2361041470463311).Normalize()

	g, err := e.PointAtAltitude(position, los, 2000)
	require.NoError(t, err)
	gp := e.ToGeodetic(g)
	assert.InDelta(t, 2000, gp.Altitude, ALTITUDE_CONVERGENCE*10)
}

func TestPointAtLongitudeRejectsParallelRay(t *testing.T) {
	e := wgs84()
	position := NewVector3(0, 0, 7000000)
	los := NewVector3(0, 0, -1)
	_, err := e.PointAtLongitude(position, los, math.Pi/4)
	assert.Error(t, err)
}

func TestNormalizeLongitudeWrapsToWindow(t *testing.T) {
	got := NormalizeLongitude(3.0, math.Pi)
	assert.InDelta(t, 3.0, got, 1e-12)

	got = NormalizeLongitude(-math.Pi-0.5, 0)
	assert.True(t, got >= -math.Pi && got < math.Pi)
}
