package dump

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/rugged/internal/georef"
)

func TestRecordAndReplayRoundTripsAllRecordTypes(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	date := time.Date(2024, 1, 2, 3, 4, 5, 600000000, time.UTC)

	rec.Algorithm(AlgorithmRecord{Name: "DUVENHAGE"})
	rec.Algorithm(AlgorithmRecord{Name: "CONSTANT_ELEVATION_OVER_ELLIPSOID", Elevation: 125.5, HasElevation: true})
	rec.Ellipsoid(EllipsoidRecord{EquatorialRadius: 6378137.0, Flattening: 1.0 / 298.257223563, Frame: "ITRF"})
	rec.DirectLocation(DirectLocationRecord{
		Date:     date,
		Position: georef.Vector3{X: 1, Y: 2, Z: 3},
		LOS:      georef.Vector3{X: 0, Y: 0, Z: -1},
		LightTime: true,
	})
	rec.DirectLocationResult(DirectLocationResultRecord{Latitude: 0.5, Longitude: -0.3, Elevation: 100})
	rec.InverseLocation(InverseLocationRecord{
		SensorName: "pan", Latitude: 0.1, Longitude: 0.2, Elevation: 50,
		MinLine: 0, MaxLine: 8000, Aberration: true,
	})
	rec.InverseLocationResult(InverseLocationResultRecord{LineNumber: 123.5, PixelNumber: 456.25})
	rec.Span(SpanRecord{
		MinDate: date, MaxDate: date.Add(time.Hour), Step: 250 * time.Millisecond,
		Tolerance: 5 * time.Second, InertialFrame: "EME2000",
	})
	rec.Transform(TransformRecord{
		Index:        3,
		BodyRotation: georef.Quaternion{W: 1, X: 0, Y: 0, Z: 0},
		ScPosition:   georef.Vector3{X: 7000000, Y: 0, Z: 0},
		ScVelocity:   georef.Vector3{X: 0, Y: 7500, Z: 0},
		ScRotation:   georef.Quaternion{W: 1, X: 0, Y: 0, Z: 0},
	})
	rec.DEMTile(DEMTileRecord{Name: "t0", MinLatitude: 45, LatitudeStep: 0.1, Rows: 10, MinLongitude: 6, LongitudeStep: 0.1, Cols: 10})
	rec.DEMCell(DEMCellRecord{Name: "t0", LatitudeIndex: 2, LongitudeIndex: 3, Elevation: 812.25})
	rec.Sensor(SensorRecord{Name: "pan", NbPixels: 20000, Position: georef.Vector3{X: 1, Y: 0, Z: 0}})
	rec.SensorMeanPlane(SensorMeanPlaneRecord{
		SensorName: "pan", MinLine: 0, MaxLine: 8000, MaxEval: 50, Accuracy: 1e-4,
		Normal: georef.Vector3{X: 0, Y: 1, Z: 0},
		CachedResults: []CachedCrossing{
			{LineNumber: 10, Date: date, Target: georef.Vector3{X: 1, Y: 2, Z: 3}, TargetDirection: georef.Vector3{X: 0.1, Y: 0.2, Z: 0.3}, Derivative: georef.Vector3{X: 0.01, Y: 0.02, Z: 0.03}},
			{LineNumber: 20, Date: date, Target: georef.Vector3{X: 4, Y: 5, Z: 6}, TargetDirection: georef.Vector3{X: 0.4, Y: 0.5, Z: 0.6}, Derivative: georef.Vector3{X: 0.04, Y: 0.05, Z: 0.06}},
		},
	})
	rec.SensorLOS(SensorLOSRecord{SensorName: "pan", Date: date, PixelNumber: 100, LOS: georef.Vector3{X: 0.01, Y: 0, Z: -1}})
	rec.SensorDatation(SensorDatationRecord{SensorName: "pan", LineNumber: 100, Date: date})
	rec.SensorRate(SensorRateRecord{SensorName: "pan", LineNumber: 100, Rate: 1200})

	require.NoError(t, rec.Err())

	sess, err := Replay(&buf)
	require.NoError(t, err)
	assert.Equal(t, rec.SessionID, sess.SessionID)

	require.Len(t, sess.Algorithms, 2)
	assert.Equal(t, "DUVENHAGE", sess.Algorithms[0].Name)
	assert.False(t, sess.Algorithms[0].HasElevation)
	assert.True(t, sess.Algorithms[1].HasElevation)
	assert.InDelta(t, 125.5, sess.Algorithms[1].Elevation, 1e-6)

	require.Len(t, sess.Ellipsoids, 1)
	assert.InDelta(t, 6378137.0, sess.Ellipsoids[0].EquatorialRadius, 1e-3)
	assert.Equal(t, "ITRF", sess.Ellipsoids[0].Frame)

	require.Len(t, sess.DirectLocations, 1)
	assert.True(t, sess.DirectLocations[0].LightTime)
	assert.False(t, sess.DirectLocations[0].Aberration)
	assert.InDelta(t, 3, sess.DirectLocations[0].Position.Z, 1e-6)

	require.Len(t, sess.DirectLocationResults, 1)
	assert.InDelta(t, -0.3, sess.DirectLocationResults[0].Longitude, 1e-9)

	require.Len(t, sess.InverseLocations, 1)
	assert.Equal(t, "pan", sess.InverseLocations[0].SensorName)
	assert.Equal(t, 8000, sess.InverseLocations[0].MaxLine)
	assert.True(t, sess.InverseLocations[0].Aberration)

	require.Len(t, sess.InverseLocationResults, 1)
	assert.InDelta(t, 456.25, sess.InverseLocationResults[0].PixelNumber, 1e-6)

	require.Len(t, sess.Spans, 1)
	assert.Equal(t, "EME2000", sess.Spans[0].InertialFrame)
	assert.InDelta(t, (250 * time.Millisecond).Seconds(), sess.Spans[0].Step.Seconds(), 1e-6)

	require.Len(t, sess.Transforms, 1)
	assert.Equal(t, 3, sess.Transforms[0].Index)
	assert.InDelta(t, 7500, sess.Transforms[0].ScVelocity.Y, 1e-3)

	require.Len(t, sess.DEMTiles, 1)
	assert.Equal(t, 10, sess.DEMTiles[0].Rows)

	require.Len(t, sess.DEMCells, 1)
	assert.InDelta(t, 812.25, sess.DEMCells[0].Elevation, 1e-6)

	require.Len(t, sess.Sensors, 1)
	assert.Equal(t, 20000, sess.Sensors[0].NbPixels)

	require.Len(t, sess.SensorMeanPlanes, 1)
	require.Len(t, sess.SensorMeanPlanes[0].CachedResults, 2)
	assert.InDelta(t, 20, sess.SensorMeanPlanes[0].CachedResults[1].LineNumber, 1e-6)
	assert.InDelta(t, 0.06, sess.SensorMeanPlanes[0].CachedResults[1].Derivative.Z, 1e-6)

	require.Len(t, sess.SensorLOSes, 1)
	assert.Equal(t, 100, sess.SensorLOSes[0].PixelNumber)

	require.Len(t, sess.SensorDatations, 1)
	assert.InDelta(t, 100, sess.SensorDatations[0].LineNumber, 1e-6)

	require.Len(t, sess.SensorRates, 1)
	assert.InDelta(t, 1200, sess.SensorRates[0].Rate, 1e-6)
}

func TestReplayRejectsUnparsableLine(t *testing.T) {
	_, err := Replay(bytes.NewBufferString("not a valid record\n"))
	assert.Error(t, err)
}

func TestReplaySkipsCommentsAndBlankLines(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	rec.Algorithm(AlgorithmRecord{Name: "IGNORE_DEM_USE_ELLIPSOID"})
	text := "# a comment\n\n" + buf.String() + "\n# trailing\n"

	sess, err := Replay(bytes.NewBufferString(text))
	require.NoError(t, err)
	require.Len(t, sess.Algorithms, 1)
}
