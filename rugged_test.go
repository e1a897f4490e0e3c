package rugged_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/rugged"
)

var epoch = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// straightLineSamples builds a non-rotating, constant-velocity
// TimeStampedTransform ephemeris, the same shape used to exercise the
// frame interpolator directly: a fixed attitude and a position that moves
// linearly with v from p0 at start.
func straightLineSamples(start time.Time, n int, step time.Duration, p0, v rugged.Vector3) []rugged.TimeStampedTransform {
	out := make([]rugged.TimeStampedTransform, n)
	for i := 0; i < n; i++ {
		dt := time.Duration(i) * step
		out[i] = rugged.TimeStampedTransform{
			Date:        start.Add(dt),
			Translation: rugged.TranslationState{P: p0.Add(v.Scale(dt.Seconds())), V: v},
			Rotation:    rugged.RotationState{Q: rugged.IdentityQuaternion},
		}
	}
	return out
}

func pushbroomLOS(reference time.Time, nbPixels int) *rugged.TabulatedLOS {
	directions := make([][]rugged.Vector3, 2)
	for s := range directions {
		row := make([]rugged.Vector3, nbPixels)
		mid := float64(nbPixels-1) / 2
		for p := 0; p < nbPixels; p++ {
			row[p] = rugged.Vector3{X: -1, Y: 0, Z: (float64(p) - mid) * 0.02}.Normalize()
		}
		directions[s] = row
	}
	los, err := rugged.NewTabulatedLOS([]time.Time{reference.Add(-time.Hour), reference.Add(time.Hour)}, directions)
	if err != nil {
		panic(err)
	}
	return los
}

func newTestBuilder(t *testing.T) *rugged.Builder {
	t.Helper()
	cfg := rugged.EmptyConfig()
	cfg.Algorithm = rugged.Ptr(rugged.AlgorithmIgnoreDEM)
	cfg.Ellipsoid = rugged.Ptr(rugged.EllipsoidWGS84)

	b := rugged.NewBuilder(cfg)

	const earthRadius = 6378137.0
	const altitude = 600000.0
	p0 := rugged.Vector3{X: earthRadius + altitude, Y: 0, Z: 0}
	v := rugged.Vector3{X: 0, Y: 7000, Z: 0}

	minDate := epoch
	maxDate := epoch.Add(2 * time.Second)
	sampleStart := epoch.Add(-time.Second)
	bodySamples := straightLineSamples(sampleStart, 40, 100*time.Millisecond, rugged.Vector3{}, rugged.Vector3{})
	scSamples := straightLineSamples(sampleStart, 40, 100*time.Millisecond, p0, v)
	b.SetTimeSpanFromSamples(minDate, maxDate, bodySamples, scSamples)

	datation := rugged.AffineLineDatation{ReferenceLine: 0, ReferenceDate: epoch, LinesPerSecond: 100}
	los := pushbroomLOS(epoch, 5)
	mount := rugged.Vector3{X: 1.0, Y: 0.5, Z: -0.2}
	require.NoError(t, b.AddLineSensor("cam", mount, datation, los, epoch))

	return b
}

func TestDirectThenInverseLocationRoundTrips(t *testing.T) {
	b := newTestBuilder(t)
	r, err := b.Build()
	require.NoError(t, err)

	gp, err := r.DirectLocation("cam", 50, 2.3)
	require.NoError(t, err)

	found, err := r.InverseLocation("cam", gp, 0, 100)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.InDelta(t, 50, found.Line, 0.05)
	assert.InDelta(t, 2.3, found.Pixel, 0.05)
}

func TestInverseLocationReturnsNilForUnreachableTarget(t *testing.T) {
	b := newTestBuilder(t)
	r, err := b.Build()
	require.NoError(t, err)

	farSide := rugged.GeodeticPoint{Latitude: 0, Longitude: 3.0, Altitude: 0}
	found, err := r.InverseLocation("cam", farSide, 0, 100)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestDirectLocationUnknownSensor(t *testing.T) {
	b := newTestBuilder(t)
	r, err := b.Build()
	require.NoError(t, err)

	_, err = r.DirectLocation("missing", 0, 0)
	require.Error(t, err)
	assert.True(t, rugged.IsCode(err, rugged.CodeUnknownSensor))
}

func TestBuildRequiresDEMUpdaterForDuvenhage(t *testing.T) {
	cfg := rugged.EmptyConfig()
	cfg.Algorithm = rugged.Ptr(rugged.AlgorithmDuvenhage)
	b := rugged.NewBuilder(cfg)

	_, err := b.Build()
	require.Error(t, err)
}

func TestCacheMetricsNilWithoutDEM(t *testing.T) {
	b := newTestBuilder(t)
	r, err := b.Build()
	require.NoError(t, err)
	assert.Nil(t, r.CacheMetrics())
}
