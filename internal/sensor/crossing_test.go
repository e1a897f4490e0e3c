package sensor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/rugged/internal/georef"
)

func TestMeanPlaneCrossingFindsConvergingLine(t *testing.T) {
	los := fanInXZPlane(101, 50, 0.01)
	ref := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sensor, err := NewLineSensor("test", georef.Vector3{}, AffineLineDatation{LinesPerSecond: 1}, los, ref)
	require.NoError(t, err)

	const crossingLine = 5.0
	const targetX = 0.05
	target := func(line float64) (georef.Vector3, time.Time, error) {
		y := (line - crossingLine) * 0.01
		d := georef.Vector3{X: targetX, Y: y, Z: 1}.Normalize()
		return d, ref.Add(time.Duration(line) * time.Second), nil
	}

	crossing := SensorMeanPlaneCrossing{Sensor: sensor, LineMin: 0, LineMax: 10, MaxEval: 50}
	result, err := crossing.Find(target)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.InDelta(t, crossingLine, result.Line, 1e-6)
}

func TestMeanPlaneCrossingReturnsNilWhenOutOfRange(t *testing.T) {
	los := fanInXZPlane(101, 50, 0.01)
	ref := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sensor, err := NewLineSensor("test", georef.Vector3{}, AffineLineDatation{LinesPerSecond: 1}, los, ref)
	require.NoError(t, err)

	target := func(line float64) (georef.Vector3, time.Time, error) {
		y := (line - 500) * 0.01
		d := georef.Vector3{X: 0, Y: y, Z: 1}.Normalize()
		return d, ref, nil
	}

	crossing := SensorMeanPlaneCrossing{Sensor: sensor, LineMin: 0, LineMax: 10, MaxEval: 50}
	result, err := crossing.Find(target)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestPixelCrossingLocatesAndRefinesKnownTarget(t *testing.T) {
	los := fanInXZPlane(101, 50, 0.01)
	ref := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sensor, err := NewLineSensor("test", georef.Vector3{}, AffineLineDatation{LinesPerSecond: 1}, los, ref)
	require.NoError(t, err)

	const crossingLine = 5.0
	const targetX = 0.05
	target := func(line float64) (georef.Vector3, time.Time, error) {
		y := (line - crossingLine) * 0.01
		d := georef.Vector3{X: targetX, Y: y, Z: 1}.Normalize()
		return d, ref.Add(time.Duration(line) * time.Second), nil
	}

	mpCrossing := SensorMeanPlaneCrossing{Sensor: sensor, LineMin: 0, LineMax: 10, MaxEval: 50}
	crossing, err := mpCrossing.Find(target)
	require.NoError(t, err)
	require.NotNil(t, crossing)

	pxCrossing := SensorPixelCrossing{Sensor: sensor, PixelMin: 0, PixelMax: 100, Tolerance: 1e-6}
	p0, err := pxCrossing.LocatePixel(crossing.Date, crossing.Direction)
	require.NoError(t, err)
	assert.InDelta(t, 55.0, p0, 0.05)

	fine, err := pxCrossing.Refine(crossing, crossing.Direction, p0)
	require.NoError(t, err)
	assert.InDelta(t, 55.0, fine.Pixel, 0.05)
	assert.InDelta(t, crossingLine, fine.Line, 0.05)
}
