// Package numerics implements the small set of scalar root-finders the
// sensor geometry solvers need: a secant iteration for the mean-plane line
// crossing, and Brent's method for the pixel crossing where a bracketed,
// guaranteed-convergent solve is required.
package numerics

import (
	"math"

	"github.com/banshee-data/rugged/internal/rgerrors"
)

// SecantConfig bounds a secant-method solve.
type SecantConfig struct {
	MaxIterations int
	Tolerance     float64 // convergence threshold on |f(x)|
}

// DefaultSecantConfig matches the tolerance the mean-plane crossing solver
// needs: sub-microradian line convergence in a handful of iterations.
var DefaultSecantConfig = SecantConfig{MaxIterations: 50, Tolerance: 1e-10}

// Secant finds a root of f starting from the two seeds x0, x1. It does not
// require f(x0) and f(x1) to bracket a root, matching the mean-plane
// crossing's use: two nearby line estimates, not a verified bracket.
func Secant(f func(float64) float64, x0, x1 float64, cfg SecantConfig) (float64, error) {
	f0, f1 := f(x0), f(x1)
	for i := 0; i < cfg.MaxIterations; i++ {
		if math.Abs(f1) < cfg.Tolerance {
			return x1, nil
		}
		denom := f1 - f0
		if math.Abs(denom) < 1e-300 {
			return 0, rgerrors.New(rgerrors.InternalError, nil, "secant iteration stalled: derivative estimate vanished")
		}
		x2 := x1 - f1*(x1-x0)/denom
		x0, f0 = x1, f1
		x1, f1 = x2, f(x2)
	}
	return 0, rgerrors.New(rgerrors.InternalError, map[string]any{"iterations": cfg.MaxIterations},
		"secant iteration did not converge after %d iterations", cfg.MaxIterations)
}

// BrentConfig bounds a Brent's-method solve.
type BrentConfig struct {
	MaxIterations int
	Tolerance     float64 // absolute tolerance on the bracket width
}

// DefaultBrentConfig matches the sub-pixel tolerance the pixel crossing
// solver needs on its fractional-pixel abscissa.
var DefaultBrentConfig = BrentConfig{MaxIterations: 100, Tolerance: 1e-12}

// Brent finds a root of f within the bracket [a,b], where f(a) and f(b) must
// have opposite signs. It combines bisection, secant and inverse quadratic
// interpolation steps, falling back to bisection whenever the faster step
// would leave the bracket or fails to make adequate progress, which
// guarantees convergence as long as the initial bracket is valid.
func Brent(f func(float64) float64, a, b float64, cfg BrentConfig) (float64, error) {
	fa, fb := f(a), f(b)
	if fa*fb > 0 {
		return 0, rgerrors.New(rgerrors.InternalError, nil, "brent: initial interval does not bracket a root")
	}
	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}
	c, fc := a, fa
	mflag := true
	var d float64

	for i := 0; i < cfg.MaxIterations; i++ {
		if math.Abs(fb) < cfg.Tolerance || math.Abs(b-a) < cfg.Tolerance {
			return b, nil
		}

		var s float64
		if fa != fc && fb != fc {
			// Inverse quadratic interpolation.
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// Secant step.
			s = b - fb*(b-a)/(fb-fa)
		}

		lowBound := (3*a + b) / 4
		needsBisection := (s < math.Min(lowBound, b) || s > math.Max(lowBound, b)) ||
			(mflag && math.Abs(s-b) >= math.Abs(b-c)/2) ||
			(!mflag && math.Abs(s-b) >= math.Abs(c-d)/2) ||
			(mflag && math.Abs(b-c) < cfg.Tolerance) ||
			(!mflag && math.Abs(c-d) < cfg.Tolerance)

		if needsBisection {
			s = (a + b) / 2
			mflag = true
		} else {
			mflag = false
		}

		fs := f(s)
		d = c
		c, fc = b, fb

		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}
		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}
	return 0, rgerrors.New(rgerrors.InternalError, map[string]any{"iterations": cfg.MaxIterations},
		"brent iteration did not converge after %d iterations", cfg.MaxIterations)
}
