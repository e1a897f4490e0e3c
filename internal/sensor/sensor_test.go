package sensor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/rugged/internal/georef"
)

// staticLOS is a TimeDependentLOS whose directions don't vary with date,
// enough to exercise MeanPlaneNormal/LocatePixel/Refine without a full
// frame stack.
type staticLOS struct {
	directions []georef.Vector3
}

func (s staticLOS) PixelCount() int { return len(s.directions) }
func (s staticLOS) LOS(date time.Time, pixel int) (georef.Vector3, error) {
	return s.directions[pixel], nil
}

func fanInXZPlane(n int, center, step float64) staticLOS {
	dirs := make([]georef.Vector3, n)
	for i := 0; i < n; i++ {
		x := (float64(i) - center) * step
		z := math.Sqrt(math.Max(0, 1-x*x))
		dirs[i] = georef.Vector3{X: x, Y: 0, Z: z}
	}
	return staticLOS{directions: dirs}
}

func TestMeanPlaneNormalIsOrthogonalToPlanarFan(t *testing.T) {
	los := fanInXZPlane(101, 50, 0.01)
	sensor, err := NewLineSensor("test", georef.Vector3{}, AffineLineDatation{LinesPerSecond: 1}, los, time.Time{})
	require.NoError(t, err)

	n := sensor.MeanPlaneNormal()
	assert.InDelta(t, 1.0, math.Abs(n.Y), 1e-9)
	assert.InDelta(t, 0, n.X, 1e-9)
	assert.InDelta(t, 0, n.Z, 1e-9)
}

func TestMeanPlaneNormalRejectsTooFewPixels(t *testing.T) {
	los := fanInXZPlane(2, 0, 0.01)
	_, err := NewLineSensor("test", georef.Vector3{}, AffineLineDatation{LinesPerSecond: 1}, los, time.Time{})
	require.Error(t, err)
}
