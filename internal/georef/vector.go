// Package georef provides the ellipsoid and vector geometry shared by the DEM
// intersector, the frame interpolator and the sensor solvers: point-at-
// longitude/latitude/altitude along a ray, and the topocentric LOS
// conversion used by the pixel-crossing refinement.
package georef

import "math"

// Vector3 is a Cartesian 3-vector. Rugged keeps it a plain value type (no
// pointer receivers) the same way the teacher keeps SphericalToCartesian and
// ApplyPose working on raw x,y,z floats: these are hot-path primitives, not
// domain objects.
type Vector3 struct {
	X, Y, Z float64
}

func NewVector3(x, y, z float64) Vector3 { return Vector3{X: x, Y: y, Z: z} }

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scale(k float64) Vector3 {
	return Vector3{v.X * k, v.Y * k, v.Z * k}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) NormSq() float64 { return v.Dot(v) }
func (v Vector3) Norm() float64   { return math.Sqrt(v.NormSq()) }

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged; callers on the hot path (LOS vectors) are expected to never
// pass it.
func (v Vector3) Normalize() Vector3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// PointAt returns p + k*l, the usual ray-parametrization step used by every
// intersection routine in this package.
func PointAt(p, l Vector3, k float64) Vector3 {
	return p.Add(l.Scale(k))
}
