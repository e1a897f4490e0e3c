// Package correction implements the two optional ray corrections applied
// before ground intersection: aberration of light (classical velocity
// aberration between the observed and geometric directions) and light time
// (accounting for the finite propagation delay between the ground point and
// the spacecraft).
package correction

import "github.com/banshee-data/rugged/internal/georef"

// SpeedOfLight is the vacuum speed of light in metres per second.
const SpeedOfLight = 299792458.0

// AberrationOfLight replaces the observed line-of-sight direction lobs (the
// incoming photon direction in the inertial frame) with the geometric
// direction toward the target, given the spacecraft's inertial velocity
// vsat, using the classical (non-relativistic) velocity composition:
//
//	l' = (k/c)*lobs - vsat/c
//
// k is chosen so that l' has unit length: substituting into |k*lobs-vsat|=c
// gives a*k^2 - 2*b*k + c_ = 0, with a = |lobs|^2, b = lobs.vsat,
// c_ = |vsat|^2 - c^2. Since c_ is large and negative (dominated by -c^2),
// the quadratic's two roots always have opposite sign (their product is
// c_/a < 0), so the physically meaningful positive root is always the
// larger one.
func AberrationOfLight(lobs, vsat georef.Vector3) georef.Vector3 {
	a := lobs.NormSq()
	b := lobs.Dot(vsat)
	cUnder := vsat.NormSq() - SpeedOfLight*SpeedOfLight

	_, k, _ := georef.SolveQuadratic(a, -2*b, cUnder)

	return lobs.Scale(k / SpeedOfLight).Sub(vsat.Scale(1 / SpeedOfLight))
}
