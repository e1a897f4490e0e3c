package rugged

import (
	"time"

	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/sensor"
)

// GeodeticPoint is a (latitude, longitude, altitude) triple in radians and
// metres, geodetic latitude, expressed in the body frame a Rugged instance
// was built with.
type GeodeticPoint = georef.GeodeticPoint

// SensorPixel is a fractional (line, pixel) sensor location, the result of
// InverseLocation.
type SensorPixel = sensor.SensorPixel

// Vector3 is a Cartesian 3-vector, used for sensor mount positions and line
// of sight directions passed into the builder.
type Vector3 = georef.Vector3

// LineDatation maps between a sensor line number and its acquisition date.
type LineDatation = sensor.LineDatation

// AffineLineDatation is the common line<->date mapping: constant line rate.
type AffineLineDatation = sensor.AffineLineDatation

// TimeDependentLOS evaluates a sensor's per-pixel line-of-sight direction at
// an arbitrary date.
type TimeDependentLOS = sensor.TimeDependentLOS

// TabulatedLOS interpolates LOS directions piecewise-linearly between a
// shared set of sampling dates.
type TabulatedLOS = sensor.TabulatedLOS

// PolynomialLOS evaluates a per-pixel polynomial LOS model.
type PolynomialLOS = sensor.PolynomialLOS

// Quaternion is a unit attitude quaternion (W, X, Y, Z).
type Quaternion = georef.Quaternion

// IdentityQuaternion is the no-rotation quaternion.
var IdentityQuaternion = georef.IdentityQuaternion

// NewTabulatedLOS builds a TabulatedLOS from dates (strictly increasing) and
// one direction slice per date, each of length pixelCount.
func NewTabulatedLOS(dates []time.Time, directions [][]Vector3) (*TabulatedLOS, error) {
	return sensor.NewTabulatedLOS(dates, directions)
}
