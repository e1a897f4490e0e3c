package sensor

import (
	"math"
	"time"

	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/numerics"
	"github.com/banshee-data/rugged/internal/rgerrors"
)

// TargetDirectionFunc returns the unit direction from the sensor toward the
// target, expressed in the sensor frame at the date corresponding to line,
// with all enabled corrections (light time, aberration) already applied.
// This is supplied by the caller rather than computed here, keeping the
// crossing solvers independent of the correction and DEM layers.
type TargetDirectionFunc func(line float64) (direction georef.Vector3, date time.Time, err error)

// CrossingResult is the outcome of a mean-plane crossing search: the line at
// which the target direction lies in the sensor's mean plane, its date, and
// a first-order Taylor model of the target direction around that line (used
// by SensorPixelCrossing's refinement step).
type CrossingResult struct {
	Line            float64
	Date            time.Time
	Direction       georef.Vector3
	DDirectionDLine georef.Vector3
}

// taylorDerivativeStep is the finite-difference step, in lines, used to
// build CrossingResult's derivative once the crossing line converges.
const taylorDerivativeStep = 1e-3

// CoarseInverseLocationAccuracy is the default convergence tolerance, in
// pixels, for SensorPixelCrossing.LocatePixel.
const CoarseInverseLocationAccuracy = 0.01

// SensorMeanPlaneCrossing finds the sensor line at which a target direction
// lies in the sensor's mean plane.
type SensorMeanPlaneCrossing struct {
	Sensor    *LineSensor
	LineMin   float64
	LineMax   float64
	MaxEval   int
}

// Find locates the crossing line via secant iteration starting from the
// midpoint of [LineMin, LineMax] and one line step away. Returns (nil, nil)
// if the search fails to converge within MaxEval iterations or the root
// falls outside [LineMin, LineMax] -- the target is invisible to this
// sensor, which is not itself an error condition.
func (c *SensorMeanPlaneCrossing) Find(target TargetDirectionFunc) (*CrossingResult, error) {
	normal := c.Sensor.MeanPlaneNormal()
	f := func(line float64) float64 {
		d, _, err := target(line)
		if err != nil {
			return math.NaN()
		}
		return d.Dot(normal)
	}

	mid := (c.LineMin + c.LineMax) / 2
	cfg := numerics.SecantConfig{MaxIterations: c.MaxEval, Tolerance: 1e-10}
	line, err := numerics.Secant(f, mid, mid+1, cfg)
	if err != nil || math.IsNaN(line) || line < c.LineMin || line > c.LineMax {
		return nil, nil
	}

	direction, date, err := target(line)
	if err != nil {
		return nil, err
	}
	ahead, _, err := target(line + taylorDerivativeStep)
	if err != nil {
		return nil, err
	}
	derivative := ahead.Sub(direction).Scale(1 / taylorDerivativeStep)

	return &CrossingResult{Line: line, Date: date, Direction: direction, DDirectionDLine: derivative}, nil
}

// SensorPixelCrossing locates the fractional pixel (and refined line) for a
// target direction once the approximate crossing line is known.
type SensorPixelCrossing struct {
	Sensor     *LineSensor
	PixelMin   float64
	PixelMax   float64
	Tolerance  float64 // coarse search tolerance, in pixels
}

// LocatePixel finds the coarse fractional pixel whose LOS (linearly
// interpolated between adjacent integer pixels) is most closely aligned
// with targetDirection, via Brent root-finding on the signed separation
// along the sensor's mean-plane normal.
func (c *SensorPixelCrossing) LocatePixel(date time.Time, targetDirection georef.Vector3) (float64, error) {
	normal := c.Sensor.MeanPlaneNormal()
	f := func(p float64) float64 {
		los, err := interpolatedLOS(c.Sensor.LOS, date, p)
		if err != nil {
			return math.NaN()
		}
		return los.Cross(targetDirection).Dot(normal)
	}
	tol := c.Tolerance
	if tol <= 0 {
		tol = CoarseInverseLocationAccuracy
	}
	return numerics.Brent(f, c.PixelMin, c.PixelMax, numerics.BrentConfig{MaxIterations: 100, Tolerance: tol})
}

// Refine applies the one-step linearization of the design notes: starting
// from a coarse pixel p0 and the CrossingResult's Taylor model, it rounds p0
// to the nearest integer pixel p*, measures the angle beta between
// targetDirection and the local plane normal LOS(p*) x LOS(p*+1), and uses
// beta's derivative (from the stored Taylor model) to step the line to where
// beta would be exactly pi/2. The fine pixel is p* plus the azimuth of
// targetDirection within the (LOS(p*), LOS(p*+1)) pair, divided by the
// actual angular pixel width.
func (c *SensorPixelCrossing) Refine(crossing *CrossingResult, targetDirection georef.Vector3, p0 float64) (SensorPixel, error) {
	pStar := math.Round(p0)
	if pStar < 0 {
		pStar = 0
	}
	if pStar > c.PixelMax-1 {
		pStar = c.PixelMax - 1
	}
	u, err := c.Sensor.LOS.LOS(crossing.Date, int(pStar))
	if err != nil {
		return SensorPixel{}, err
	}
	w, err := c.Sensor.LOS.LOS(crossing.Date, int(pStar)+1)
	if err != nil {
		return SensorPixel{}, err
	}

	normal := u.Cross(w).Normalize()
	cosBeta := clamp(targetDirection.Normalize().Dot(normal), -1, 1)
	beta := math.Acos(cosBeta)

	dcos := crossing.DDirectionDLine.Dot(normal)
	sinBeta := math.Sqrt(1 - cosBeta*cosBeta)
	if sinBeta < 1e-12 {
		return SensorPixel{}, rgerrors.New(rgerrors.InternalError, nil, "pixel refinement: local plane normal nearly parallel to target direction")
	}
	betaDerivative := -dcos / sinBeta
	if math.Abs(betaDerivative) < 1e-15 {
		return SensorPixel{}, rgerrors.New(rgerrors.InternalError, nil, "pixel refinement: beta derivative vanished")
	}
	deltaLine := (math.Pi/2 - beta) / betaDerivative
	fineLine := crossing.Line + deltaLine

	orthoW := w.Sub(u.Scale(w.Dot(u))).Normalize()
	compU := targetDirection.Dot(u)
	compW := targetDirection.Dot(orthoW)
	alpha := math.Atan2(compW, compU)
	pixelWidth := math.Acos(clamp(u.Dot(w), -1, 1))
	if pixelWidth < 1e-15 {
		return SensorPixel{}, rgerrors.New(rgerrors.InternalError, nil, "pixel refinement: degenerate pixel width")
	}
	finePixel := pStar + alpha/pixelWidth

	return SensorPixel{Line: fineLine, Pixel: finePixel}, nil
}

// SensorPixel is a fractional (line, pixel) location, the result of inverse
// location through a LineSensor.
type SensorPixel struct {
	Line  float64
	Pixel float64
}

func interpolatedLOS(los TimeDependentLOS, date time.Time, p float64) (georef.Vector3, error) {
	n := los.PixelCount()
	lo := int(math.Floor(p))
	if lo < 0 {
		lo = 0
	}
	if lo > n-2 {
		lo = n - 2
	}
	hi := lo + 1
	a, err := los.LOS(date, lo)
	if err != nil {
		return georef.Vector3{}, err
	}
	b, err := los.LOS(date, hi)
	if err != nil {
		return georef.Vector3{}, err
	}
	tau := p - float64(lo)
	return a.Scale(1 - tau).Add(b.Scale(tau)).Normalize(), nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
