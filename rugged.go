// Package rugged geolocates pixels of a pushbroom line-scanning optical
// satellite sensor against a digital elevation model: DirectLocation turns a
// (sensor, line, pixel) triple into a ground point, InverseLocation turns a
// ground point back into the (sensor, line, pixel) triple that observed it.
//
// A Rugged instance is assembled by Builder from a tile updater, a
// spacecraft-to-body frame interpolator and one or more line sensors; it is
// immutable once built. When built with a dump writer, all queries share one
// dump.Recorder, which is not goroutine-safe.
package rugged

import (
	"time"

	"github.com/banshee-data/rugged/internal/correction"
	"github.com/banshee-data/rugged/internal/dem"
	"github.com/banshee-data/rugged/internal/dump"
	"github.com/banshee-data/rugged/internal/frames"
	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/rgerrors"
	"github.com/banshee-data/rugged/internal/rlog"
	"github.com/banshee-data/rugged/internal/sensor"
)

const inverseLocationMaxEval = 50

// Rugged geolocates against a fixed ellipsoid, ground-intersection
// algorithm, frame interpolator and set of line sensors. Construct one via
// Builder.
type Rugged struct {
	ellipsoid    georef.Ellipsoid
	algorithm    dem.IntersectionAlgorithm
	cache        *dem.TilesCache
	interpolator *frames.SpacecraftToBody
	sensors      map[string]*sensor.LineSensor
	lightTime    bool
	aberration   bool
	dumper       *dump.Recorder
}

// Ellipsoid returns the reference ellipsoid this instance was built with.
func (r *Rugged) Ellipsoid() georef.Ellipsoid { return r.ellipsoid }

// CacheMetrics returns the DEM tile cache's Prometheus counters, or nil for
// algorithms that do not consult a tile cache (IGNORE_DEM_USE_ELLIPSOID,
// CONSTANT_ELEVATION_OVER_ELLIPSOID).
func (r *Rugged) CacheMetrics() *dem.CacheMetrics {
	if r.cache == nil {
		return nil
	}
	return r.cache.Metrics
}

// Sensor returns the named line sensor, or an UNKNOWN_SENSOR error.
func (r *Rugged) Sensor(name string) (*sensor.LineSensor, error) {
	s, ok := r.sensors[name]
	if !ok {
		return nil, unknownSensor(name)
	}
	return s, nil
}

func (r *Rugged) requireInterpolator() error {
	if r.interpolator == nil {
		return rgerrors.New(rgerrors.UninitializedContext, nil,
			"no spacecraft-to-body interpolator configured on this Rugged instance")
	}
	return nil
}

// DirectLocation computes the ground point observed by sensorName at the
// given fractional line and pixel: the line's acquisition date locates the
// sensor and spacecraft in the inertial frame via Hermite interpolation, the
// pixel's line-of-sight is optionally aberration-shifted, and the resulting
// ray is intersected against the terrain in the body frame, iterating on
// light time when enabled.
func (r *Rugged) DirectLocation(sensorName string, line, pixel float64) (GeodeticPoint, error) {
	if err := r.requireInterpolator(); err != nil {
		return GeodeticPoint{}, err
	}
	s, err := r.Sensor(sensorName)
	if err != nil {
		return GeodeticPoint{}, err
	}

	date := s.Datation.DateAtLine(line)
	losSc, err := s.LOSAtFractionalPixel(date, pixel)
	if err != nil {
		return GeodeticPoint{}, err
	}

	scToInertial, err := r.interpolator.ScToInertial(date)
	if err != nil {
		return GeodeticPoint{}, err
	}
	// ScToInertial.Translation.P is the spacecraft's own inertial position,
	// not an origin offset to difference against, so the sensor's small
	// body-frame mount offset is rotated then added rather than run through
	// TransformPosition (which assumes the opposite composition order).
	positionInertial := scToInertial.TransformVector(s.Position).Add(scToInertial.Translation.P)
	losInertial := scToInertial.TransformVector(losSc)
	if r.aberration {
		losInertial = correction.AberrationOfLight(losInertial, scToInertial.Translation.V)
	}

	inertialToBody, err := r.interpolator.InertialToBody(date)
	if err != nil {
		return GeodeticPoint{}, err
	}

	spBody := inertialToBody.TransformPosition(positionInertial)
	lBody := inertialToBody.TransformVector(losInertial)
	rough, err := dem.IgnoreDEM{}.Intersection(r.ellipsoid, spBody, lBody, 0)
	if err != nil {
		return GeodeticPoint{}, err
	}
	centralLongitude := rough.Longitude

	var result georef.NormalizedGeodeticPoint
	if r.lightTime {
		result, err = correction.LightTimeCorrected(r.ellipsoid, r.algorithm, inertialToBody, positionInertial, losInertial, centralLongitude)
	} else {
		result, err = r.algorithm.Intersection(r.ellipsoid, spBody, lBody, centralLongitude)
	}
	if err != nil {
		return GeodeticPoint{}, err
	}

	if r.dumper != nil {
		r.dumper.DirectLocation(dump.DirectLocationRecord{
			Date: date, Position: positionInertial, LOS: losInertial,
			LightTime: r.lightTime, Aberration: r.aberration,
		})
		r.dumper.DirectLocationResult(dump.DirectLocationResultRecord{
			Latitude: result.Latitude, Longitude: result.Longitude, Elevation: result.Altitude,
		})
	}
	return result.GeodeticPoint, nil
}

// InverseLocation finds the (line, pixel) at which sensorName observed
// ground point gp, searching lines in [minLine, maxLine]. It returns (nil,
// nil), not an error, when gp is outside the sensor's field of regard for
// every line in range.
func (r *Rugged) InverseLocation(sensorName string, gp GeodeticPoint, minLine, maxLine float64) (*SensorPixel, error) {
	if err := r.requireInterpolator(); err != nil {
		return nil, err
	}
	s, err := r.Sensor(sensorName)
	if err != nil {
		return nil, err
	}

	targetBody := r.ellipsoid.ToCartesian(gp)
	target := func(line float64) (georef.Vector3, time.Time, error) {
		date := s.Datation.DateAtLine(line)
		bodyToInertial, err := r.interpolator.BodyToInertial(date)
		if err != nil {
			return georef.Vector3{}, time.Time{}, err
		}
		scToInertial, err := r.interpolator.ScToInertial(date)
		if err != nil {
			return georef.Vector3{}, time.Time{}, err
		}
		targetInertial := bodyToInertial.TransformPosition(targetBody)
		geometric := targetInertial.Sub(scToInertial.Translation.P).Normalize()
		if r.aberration {
			geometric = approximateObservedDirection(geometric, scToInertial.Translation.V)
		}
		inertialToSc, err := r.interpolator.InertialToSc(date)
		if err != nil {
			return georef.Vector3{}, time.Time{}, err
		}
		return inertialToSc.TransformVector(geometric).Normalize(), date, nil
	}

	crossing := &sensor.SensorMeanPlaneCrossing{Sensor: s, LineMin: minLine, LineMax: maxLine, MaxEval: inverseLocationMaxEval}
	found, err := crossing.Find(target)
	if err != nil {
		return nil, err
	}
	if found == nil {
		rlog.Logf("rugged: %+v invisible to sensor %q in lines [%g, %g]", gp, sensorName, minLine, maxLine)
		return nil, nil
	}

	pixelCrossing := &sensor.SensorPixelCrossing{Sensor: s, PixelMin: 0, PixelMax: float64(s.LOS.PixelCount() - 1)}
	p0, err := pixelCrossing.LocatePixel(found.Date, found.Direction)
	if err != nil {
		return nil, err
	}
	refined, err := pixelCrossing.Refine(found, found.Direction, p0)
	if err != nil {
		return nil, err
	}

	if r.dumper != nil {
		r.dumper.InverseLocation(dump.InverseLocationRecord{
			SensorName: sensorName, Latitude: gp.Latitude, Longitude: gp.Longitude, Elevation: gp.Altitude,
			MinLine: int(minLine), MaxLine: int(maxLine), LightTime: r.lightTime, Aberration: r.aberration,
		})
		r.dumper.InverseLocationResult(dump.InverseLocationResultRecord{LineNumber: refined.Line, PixelNumber: refined.Pixel})
	}
	return &refined, nil
}

// approximateObservedDirection estimates the observed (aberrated) direction
// from the geometric direction toward a target, by applying the classical
// aberration correction with the spacecraft velocity negated. This is not a
// true inverse of AberrationOfLight (the exact inverse has no closed form
// here) but is accurate to the same order the forward correction is, since
// aberration shifts are always sub-arcsecond at LEO velocities.
func approximateObservedDirection(geometric, vsat georef.Vector3) georef.Vector3 {
	return correction.AberrationOfLight(geometric, vsat.Scale(-1))
}
