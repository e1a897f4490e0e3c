package georef

import (
	"math"

	"github.com/banshee-data/rugged/internal/rgerrors"
)

// ALTITUDE_CONVERGENCE is the stopping tolerance, in metres, of the
// iterative altitude-crossing solver in PointAtAltitude.
const ALTITUDE_CONVERGENCE = 1e-3

// longitudeParallelTolerance bounds |los . meridianNormal| below which a ray
// is considered parallel to a meridian half-plane.
const longitudeParallelTolerance = 1e-12

// GeodeticPoint is a (latitude, longitude, altitude) triple, radians and
// metres, geodetic (not geocentric) latitude.
type GeodeticPoint struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// NormalizedGeodeticPoint additionally records the reference longitude lc
// used to fold Longitude into [lc-pi, lc+pi).
type NormalizedGeodeticPoint struct {
	GeodeticPoint
	ReferenceLongitude float64
}

// NormalizeLongitude folds lon into [lc-pi, lc+pi).
func NormalizeLongitude(lon, lc float64) float64 {
	two := 2 * math.Pi
	return lon - two*math.Floor((lon-lc+math.Pi)/two)
}

// Normalize builds a NormalizedGeodeticPoint with Longitude folded around lc.
func Normalize(gp GeodeticPoint, lc float64) NormalizedGeodeticPoint {
	return NormalizedGeodeticPoint{
		GeodeticPoint:      GeodeticPoint{Latitude: gp.Latitude, Longitude: NormalizeLongitude(gp.Longitude, lc), Altitude: gp.Altitude},
		ReferenceLongitude: lc,
	}
}

// Ellipsoid is an oblate spheroid of revolution: equatorial radius A,
// flattening F, and the identifier of the body-fixed frame it is expressed
// in (used only for bookkeeping/dump output, never dereferenced here).
type Ellipsoid struct {
	Name      string
	A         float64
	F         float64
	BodyFrame string
}

// B is the polar (semi-minor) radius.
func (e Ellipsoid) B() float64 { return e.A * (1 - e.F) }

// A2 and B2 are the squared semi-axes used throughout the quadratic solves.
func (e Ellipsoid) A2() float64 { return e.A * e.A }
func (e Ellipsoid) B2() float64 { b := e.B(); return b * b }

// EccentricitySquared returns e^2 = 1 - b^2/a^2.
func (e Ellipsoid) EccentricitySquared() float64 {
	return 1 - e.B2()/e.A2()
}

// ToCartesian converts a geodetic point to the body-fixed Cartesian frame.
func (e Ellipsoid) ToCartesian(gp GeodeticPoint) Vector3 {
	e2 := e.EccentricitySquared()
	sinLat, cosLat := math.Sin(gp.Latitude), math.Cos(gp.Latitude)
	sinLon, cosLon := math.Sin(gp.Longitude), math.Cos(gp.Longitude)
	n := e.A / math.Sqrt(1-e2*sinLat*sinLat)
	return Vector3{
		X: (n + gp.Altitude) * cosLat * cosLon,
		Y: (n + gp.Altitude) * cosLat * sinLon,
		Z: (n*(1-e2) + gp.Altitude) * sinLat,
	}
}

// ToGeodetic converts a body-fixed Cartesian point to geodetic coordinates
// using Bowring's closed-form approximation (single Newton correction),
// which is accurate to sub-millimetre altitude error for the terrestrial
// flattenings Rugged targets.
func (e Ellipsoid) ToGeodetic(p Vector3) GeodeticPoint {
	a := e.A
	b := e.B()
	e2 := e.EccentricitySquared()
	ep2 := (a*a - b*b) / (b * b)

	rho := math.Hypot(p.X, p.Y)
	lon := math.Atan2(p.Y, p.X)

	if rho < 1e-9 {
		lat := math.Pi / 2
		if p.Z < 0 {
			lat = -lat
		}
		return GeodeticPoint{Latitude: lat, Longitude: lon, Altitude: math.Abs(p.Z) - b}
	}

	theta := math.Atan2(p.Z*a, rho*b)
	sinTheta, cosTheta := math.Sin(theta), math.Cos(theta)
	lat := math.Atan2(p.Z+ep2*b*sinTheta*sinTheta*sinTheta, rho-e2*a*cosTheta*cosTheta*cosTheta)

	sinLat := math.Sin(lat)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)
	var alt float64
	if math.Abs(math.Cos(lat)) > 1e-9 {
		alt = rho/math.Cos(lat) - n
	} else {
		alt = math.Abs(p.Z) - n*(1-e2)
	}
	return GeodeticPoint{Latitude: lat, Longitude: lon, Altitude: alt}
}

// SurfaceNormal returns the outward unit normal of the ellipsoid surface
// passing through the footpoint whose geodetic coordinates are gp (the
// "zenith" direction used by ConvertLos).
func SurfaceNormal(gp GeodeticPoint) Vector3 {
	sinLat, cosLat := math.Sin(gp.Latitude), math.Cos(gp.Latitude)
	sinLon, cosLon := math.Sin(gp.Longitude), math.Cos(gp.Longitude)
	return Vector3{X: cosLat * cosLon, Y: cosLat * sinLon, Z: sinLat}
}

// solveStableQuadratic solves a*k^2 + b*k + c = 0 using the numerically
// stable form that avoids catastrophic cancellation (select the root via
// the sign of the linear coefficient), returning both roots in increasing
// order. ok is false if there is no real root.
func solveStableQuadratic(a, b, c float64) (k1, k2 float64, ok bool) {
	if a == 0 {
		if b == 0 {
			return 0, 0, false
		}
		k := -c / b
		return k, k, true
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	var q float64
	if b >= 0 {
		q = -0.5 * (b + sq)
	} else {
		q = -0.5 * (b - sq)
	}
	r1 := q / a
	r2 := c / q
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return r1, r2, true
}

// SolveQuadratic exposes solveStableQuadratic to other packages (the DEM
// intersector's per-cell bilinear-surface crossing is the same kind of
// quadratic as the ray/ellipsoid ones here, and should be solved the same
// numerically stable way).
func SolveQuadratic(a, b, c float64) (k1, k2 float64, ok bool) {
	return solveStableQuadratic(a, b, c)
}

// RayGroundParameters returns the ray/ellipsoid intersection parameters in
// increasing order, for callers that need the raw roots rather than a
// resolved GeodeticPoint (the DEM intersector uses this to find where a ray
// enters the reference ellipsoid before walking the terrain inward from
// there).
func (e Ellipsoid) RayGroundParameters(position, los Vector3) (k1, k2 float64, ok bool) {
	a2, b2 := e.A2(), e.B2()
	A := los.X*los.X/a2 + los.Y*los.Y/a2 + los.Z*los.Z/b2
	B := 2 * (position.X*los.X/a2 + position.Y*los.Y/a2 + position.Z*los.Z/b2)
	C := position.X*position.X/a2 + position.Y*position.Y/a2 + position.Z*position.Z/b2 - 1
	return solveStableQuadratic(A, B, C)
}

// PointOnGround returns the first (smallest positive k) intersection of the
// ray position+k*los with the ellipsoid surface.
func (e Ellipsoid) PointOnGround(position, los Vector3, centralLongitude float64) (NormalizedGeodeticPoint, error) {
	k1, k2, ok := e.RayGroundParameters(position, los)
	if !ok {
		return NormalizedGeodeticPoint{}, rgerrors.New(rgerrors.LineOfSightDoesNotReachGround, nil,
			"line of sight does not reach ground")
	}
	k := k1
	if k < 0 {
		k = k2
	}
	if k < 0 {
		return NormalizedGeodeticPoint{}, rgerrors.New(rgerrors.LineOfSightDoesNotReachGround, nil,
			"line of sight does not reach ground")
	}
	gp := e.ToGeodetic(PointAt(position, los, k))
	return Normalize(gp, centralLongitude), nil
}

// PointAtAltitude solves for the point on the ray whose geodetic altitude is
// h, by Newton iteration along the ray parameter using the local zenith
// vector as the altitude gradient (see the design notes: k += dH/(dH/dk)).
func (e Ellipsoid) PointAtAltitude(position, los Vector3, h float64) (Vector3, error) {
	a2, b2 := (e.A+h)*(e.A+h), (e.B()+h)*(e.B()+h)
	A := los.X*los.X/a2 + los.Y*los.Y/a2 + los.Z*los.Z/b2
	B := 2 * (position.X*los.X/a2 + position.Y*los.Y/a2 + position.Z*los.Z/b2)
	C := position.X*position.X/a2 + position.Y*position.Y/a2 + position.Z*position.Z/b2 - 1
	k1, k2, ok := solveStableQuadratic(A, B, C)
	k := k1
	if !ok {
		k = 0
	} else if k < 0 {
		k = k2
	}

	const maxIter = 50
	for i := 0; i < maxIter; i++ {
		g := PointAt(position, los, k)
		gp := e.ToGeodetic(g)
		dh := h - gp.Altitude
		if math.Abs(dh) < ALTITUDE_CONVERGENCE {
			return g, nil
		}
		zenith := SurfaceNormal(gp)
		deriv := los.Dot(zenith)
		if math.Abs(deriv) < 1e-12 {
			return Vector3{}, rgerrors.New(rgerrors.LineOfSightNeverCrossesAltitude, map[string]any{"altitude": h},
				"line of sight never crosses altitude %g", h)
		}
		k += dh / deriv
	}
	return PointAt(position, los, k), nil
}

// PointAtLatitude intersects the ray with the double-nappe cone of geodetic
// latitude phi (approximated via the geocentric-latitude cone, an exact cone
// through the ellipsoid centre, which is the standard simplification used
// when the ray/cone problem must stay a plain quadratic). When two
// solutions lie on the correct nappe, the one closer to closeReference is
// returned.
func (e Ellipsoid) PointAtLatitude(position, los Vector3, phi float64, closeReference Vector3) (Vector3, error) {
	geocentric := math.Atan((1 - e.EccentricitySquared()) * math.Tan(phi))
	cf, sf := math.Cos(geocentric), math.Sin(geocentric)

	A := los.Z*los.Z*cf*cf - (los.X*los.X+los.Y*los.Y)*sf*sf
	B := 2 * (position.Z*los.Z*cf*cf - (position.X*los.X+position.Y*los.Y)*sf*sf)
	C := position.Z*position.Z*cf*cf - (position.X*position.X+position.Y*position.Y)*sf*sf

	k1, k2, ok := solveStableQuadratic(A, B, C)
	fail := func() (Vector3, error) {
		return Vector3{}, rgerrors.New(rgerrors.LineOfSightNeverCrossesLatitude,
			map[string]any{"latitudeDeg": phi * 180 / math.Pi},
			"line of sight never crosses latitude %g deg", phi*180/math.Pi)
	}
	if !ok {
		return fail()
	}

	wantSign := 1.0
	if phi < 0 {
		wantSign = -1.0
	}
	onNappe := func(k float64) bool {
		z := position.Z + k*los.Z
		return z*wantSign >= 0
	}

	var candidates []float64
	if onNappe(k1) {
		candidates = append(candidates, k1)
	}
	if k2 != k1 && onNappe(k2) {
		candidates = append(candidates, k2)
	}
	if len(candidates) == 0 {
		return fail()
	}
	if len(candidates) == 1 {
		return PointAt(position, los, candidates[0]), nil
	}
	p1 := PointAt(position, los, candidates[0])
	p2 := PointAt(position, los, candidates[1])
	if p1.Sub(closeReference).NormSq() <= p2.Sub(closeReference).NormSq() {
		return p1, nil
	}
	return p2, nil
}

// PointAtLongitude intersects the ray with the meridian half-plane at
// longitude lambda.
func (e Ellipsoid) PointAtLongitude(position, los Vector3, lambda float64) (Vector3, error) {
	sinLam, cosLam := math.Sin(lambda), math.Cos(lambda)
	denom := los.X*sinLam - los.Y*cosLam
	if math.Abs(denom) < longitudeParallelTolerance {
		return Vector3{}, rgerrors.New(rgerrors.LineOfSightNeverCrossesLongitude, nil,
			"line of sight never crosses longitude %g", lambda)
	}
	k := -(position.X*sinLam - position.Y*cosLam) / denom
	p := PointAt(position, los, k)
	if p.X*cosLam+p.Y*sinLam < 0 {
		return Vector3{}, rgerrors.New(rgerrors.LineOfSightNeverCrossesLongitude, nil,
			"line of sight crosses opposite meridian, not longitude %g", lambda)
	}
	return p, nil
}

// ConvertLos converts a Cartesian LOS direction into topocentric
// (East, North, Zenith) components at gp: East/North are scaled by the
// local radii of curvature so they carry units of radians, Zenith stays in
// metres.
func (e Ellipsoid) ConvertLos(gp GeodeticPoint, los Vector3) (east, north, zenith float64) {
	sinLat, cosLat := math.Sin(gp.Latitude), math.Cos(gp.Latitude)
	sinLon, cosLon := math.Sin(gp.Longitude), math.Cos(gp.Longitude)

	eastDir := Vector3{X: -sinLon, Y: cosLon, Z: 0}
	northDir := Vector3{X: -sinLat * cosLon, Y: -sinLat * sinLon, Z: cosLat}
	zenithDir := Vector3{X: cosLat * cosLon, Y: cosLat * sinLon, Z: sinLat}

	e2 := e.EccentricitySquared()
	sin2 := sinLat * sinLat
	rn := e.A / math.Sqrt(1-e2*sin2)
	rm := e.A * (1 - e2) / math.Pow(1-e2*sin2, 1.5)

	east = los.Dot(eastDir) / rn
	north = los.Dot(northDir) / rm
	zenith = los.Dot(zenithDir)
	return
}
