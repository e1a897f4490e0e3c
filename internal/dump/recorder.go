// Package dump implements the line-oriented debug dump/replay format: a
// Recorder writes a session's queries and intermediate geometry as a
// replayable text log, and Replay parses that log back into a Session so
// the core geometry can be exercised without the surrounding application.
package dump

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Recorder writes dump records to an underlying writer. It is not
// goroutine-safe; callers serialize access the way the reference
// implementation's thread-local dump handle does.
type Recorder struct {
	w         io.Writer
	err       error
	SessionID uuid.UUID
}

// NewRecorder wraps w. It writes a one-line header comment identifying the
// format and a freshly generated session id, so records from two concurrent
// dump files are never mistaken for one continuous session on replay.
func NewRecorder(w io.Writer) *Recorder {
	r := &Recorder{w: w, SessionID: uuid.New()}
	r.printf("# rugged dump v1 session %s\n", r.SessionID)
	return r
}

// Err returns the first write error encountered, if any.
func (r *Recorder) Err() error { return r.err }

func (r *Recorder) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, err := fmt.Fprintf(r.w, format, args...)
	if err != nil {
		r.err = err
	}
}

func (r *Recorder) Algorithm(rec AlgorithmRecord) {
	if rec.HasElevation {
		r.printf("algorithm: %s elevation %s\n", rec.Name, formatFloat(rec.Elevation))
		return
	}
	r.printf("algorithm: %s\n", rec.Name)
}

func (r *Recorder) Ellipsoid(rec EllipsoidRecord) {
	r.printf("ellipsoid: ae %s f %s frame %s\n",
		formatFloat(rec.EquatorialRadius), formatFloat(rec.Flattening), rec.Frame)
}

func (r *Recorder) DirectLocation(rec DirectLocationRecord) {
	r.printf("direct location: date %s position %s %s %s los %s %s %s lightTime %s aberration %s\n",
		formatDate(rec.Date),
		formatFloat(rec.Position.X), formatFloat(rec.Position.Y), formatFloat(rec.Position.Z),
		formatFloat(rec.LOS.X), formatFloat(rec.LOS.Y), formatFloat(rec.LOS.Z),
		formatBool(rec.LightTime), formatBool(rec.Aberration))
}

func (r *Recorder) DirectLocationResult(rec DirectLocationResultRecord) {
	r.printf("direct location result: latitude %s longitude %s elevation %s\n",
		formatFloat(rec.Latitude), formatFloat(rec.Longitude), formatFloat(rec.Elevation))
}

func (r *Recorder) InverseLocation(rec InverseLocationRecord) {
	r.printf("inverse location: sensorName %s latitude %s longitude %s elevation %s minLine %d maxLine %d lightTime %s aberration %s\n",
		rec.SensorName, formatFloat(rec.Latitude), formatFloat(rec.Longitude), formatFloat(rec.Elevation),
		rec.MinLine, rec.MaxLine, formatBool(rec.LightTime), formatBool(rec.Aberration))
}

func (r *Recorder) InverseLocationResult(rec InverseLocationResultRecord) {
	r.printf("inverse location result: lineNumber %s pixelNumber %s\n",
		formatFloat(rec.LineNumber), formatFloat(rec.PixelNumber))
}

func (r *Recorder) Span(rec SpanRecord) {
	r.printf("span: minDate %s maxDate %s tStep %s tolerance %s inertialFrame %s\n",
		formatDate(rec.MinDate), formatDate(rec.MaxDate),
		formatFloat(rec.Step.Seconds()), formatFloat(rec.Tolerance.Seconds()), rec.InertialFrame)
}

func (r *Recorder) Transform(rec TransformRecord) {
	r.printf("transform: index %d body r %s %s %s %s Ω %s %s %s ΩDot %s %s %s spacecraft p %s %s %s v %s %s %s a %s %s %s r %s %s %s %s Ω %s %s %s ΩDot %s %s %s\n",
		rec.Index,
		formatFloat(rec.BodyRotation.W), formatFloat(rec.BodyRotation.X), formatFloat(rec.BodyRotation.Y), formatFloat(rec.BodyRotation.Z),
		formatFloat(rec.BodyOmega.X), formatFloat(rec.BodyOmega.Y), formatFloat(rec.BodyOmega.Z),
		formatFloat(rec.BodyOmegaDot.X), formatFloat(rec.BodyOmegaDot.Y), formatFloat(rec.BodyOmegaDot.Z),
		formatFloat(rec.ScPosition.X), formatFloat(rec.ScPosition.Y), formatFloat(rec.ScPosition.Z),
		formatFloat(rec.ScVelocity.X), formatFloat(rec.ScVelocity.Y), formatFloat(rec.ScVelocity.Z),
		formatFloat(rec.ScAcceleration.X), formatFloat(rec.ScAcceleration.Y), formatFloat(rec.ScAcceleration.Z),
		formatFloat(rec.ScRotation.W), formatFloat(rec.ScRotation.X), formatFloat(rec.ScRotation.Y), formatFloat(rec.ScRotation.Z),
		formatFloat(rec.ScOmega.X), formatFloat(rec.ScOmega.Y), formatFloat(rec.ScOmega.Z),
		formatFloat(rec.ScOmegaDot.X), formatFloat(rec.ScOmegaDot.Y), formatFloat(rec.ScOmegaDot.Z))
}

func (r *Recorder) DEMTile(rec DEMTileRecord) {
	r.printf("DEM tile: %s latMin %s latStep %s latRows %d lonMin %s lonStep %s lonCols %d\n",
		rec.Name, formatFloat(rec.MinLatitude), formatFloat(rec.LatitudeStep), rec.Rows,
		formatFloat(rec.MinLongitude), formatFloat(rec.LongitudeStep), rec.Cols)
}

func (r *Recorder) DEMCell(rec DEMCellRecord) {
	r.printf("DEM cell: %s latIndex %d lonIndex %d elevation %s\n",
		rec.Name, rec.LatitudeIndex, rec.LongitudeIndex, formatFloat(rec.Elevation))
}

func (r *Recorder) Sensor(rec SensorRecord) {
	r.printf("sensor: sensorName %s nbPixels %d position %s %s %s\n",
		rec.Name, rec.NbPixels, formatFloat(rec.Position.X), formatFloat(rec.Position.Y), formatFloat(rec.Position.Z))
}

func (r *Recorder) SensorMeanPlane(rec SensorMeanPlaneRecord) {
	r.printf("sensor mean plane: sensorName %s minLine %d maxLine %d maxEval %d accuracy %s normal %s %s %s cachedResults %d {",
		rec.SensorName, rec.MinLine, rec.MaxLine, rec.MaxEval, formatFloat(rec.Accuracy),
		formatFloat(rec.Normal.X), formatFloat(rec.Normal.Y), formatFloat(rec.Normal.Z), len(rec.CachedResults))
	for _, c := range rec.CachedResults {
		r.printf(" lineNumber %s date %s target %s %s %s targetDirection %s %s %s %s %s %s",
			formatFloat(c.LineNumber), formatDate(c.Date),
			formatFloat(c.Target.X), formatFloat(c.Target.Y), formatFloat(c.Target.Z),
			formatFloat(c.TargetDirection.X), formatFloat(c.TargetDirection.Y), formatFloat(c.TargetDirection.Z),
			formatFloat(c.Derivative.X), formatFloat(c.Derivative.Y), formatFloat(c.Derivative.Z))
	}
	r.printf(" }\n")
}

func (r *Recorder) SensorLOS(rec SensorLOSRecord) {
	r.printf("sensor los: sensorName %s date %s pixelNumber %d los %s %s %s\n",
		rec.SensorName, formatDate(rec.Date), rec.PixelNumber,
		formatFloat(rec.LOS.X), formatFloat(rec.LOS.Y), formatFloat(rec.LOS.Z))
}

func (r *Recorder) SensorDatation(rec SensorDatationRecord) {
	r.printf("sensor datation: sensorName %s lineNumber %s date %s\n",
		rec.SensorName, formatFloat(rec.LineNumber), formatDate(rec.Date))
}

func (r *Recorder) SensorRate(rec SensorRateRecord) {
	r.printf("sensor rate: sensorName %s lineNumber %s rate %s\n",
		rec.SensorName, formatFloat(rec.LineNumber), formatFloat(rec.Rate))
}
