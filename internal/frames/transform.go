// Package frames implements the SpacecraftToBody interpolator: a dense,
// uniformly-sampled grid of TimeStampedTransform built by Hermite
// interpolation from either sampled ephemeris points or a propagator
// callback, queried at arbitrary dates within its span.
package frames

import (
	"time"

	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/rgerrors"
)

// TranslationState is a position with its first and second time derivatives.
type TranslationState struct {
	P, V, A georef.Vector3
}

// ShiftedBy analytically extrapolates the translation by dt using the
// constant-acceleration model.
func (s TranslationState) ShiftedBy(dt float64) TranslationState {
	return TranslationState{
		P: s.P.Add(s.V.Scale(dt)).Add(s.A.Scale(0.5 * dt * dt)),
		V: s.V.Add(s.A.Scale(dt)),
		A: s.A,
	}
}

// RotationState is an attitude quaternion with angular rate and acceleration
// (rotation vectors, expressed in the rotating frame).
type RotationState struct {
	Q               georef.Quaternion
	Omega, OmegaDot georef.Vector3
}

// ShiftedBy analytically extrapolates the rotation by dt: the angular rate is
// advanced by a half-step of OmegaDot (a second-order approximation), and the
// quaternion advanced by the corresponding rotation vector.
func (s RotationState) ShiftedBy(dt float64) RotationState {
	effectiveOmega := s.Omega.Add(s.OmegaDot.Scale(0.5 * dt))
	dq := georef.FromRotationVector(effectiveOmega.Scale(dt))
	return RotationState{
		Q:        s.Q.Multiply(dq).Normalize(),
		Omega:    s.Omega.Add(s.OmegaDot.Scale(dt)),
		OmegaDot: s.OmegaDot,
	}
}

// TimeStampedTransform is a rigid-body transform between two frames, dated,
// carrying enough kinematic state (translation P/V/A, rotation Q/Omega/
// OmegaDot) to be analytically extrapolated or composed with another
// transform.
type TimeStampedTransform struct {
	Date        time.Time
	Translation TranslationState
	Rotation    RotationState
}

// ShiftedBy extrapolates the whole transform to date+dt using the stored
// derivatives, without re-consulting any sample data.
func (t TimeStampedTransform) ShiftedBy(dt time.Duration) TimeStampedTransform {
	seconds := dt.Seconds()
	return TimeStampedTransform{
		Date:        t.Date.Add(dt),
		Translation: t.Translation.ShiftedBy(seconds),
		Rotation:    t.Rotation.ShiftedBy(seconds),
	}
}

// TransformPosition maps a position from the "from" frame into the "to"
// frame: translate then rotate, the usual rigid-transform convention.
func (t TimeStampedTransform) TransformPosition(p georef.Vector3) georef.Vector3 {
	return t.Rotation.Q.Rotate(p.Sub(t.Translation.P))
}

// TransformVector maps a free vector (a direction, not anchored to a point)
// from the "from" frame into the "to" frame: rotation only.
func (t TimeStampedTransform) TransformVector(v georef.Vector3) georef.Vector3 {
	return t.Rotation.Q.Rotate(v)
}

// Invert returns the transform mapping back from "to" to "from". Velocity
// and acceleration of the inverted translation are carried through the
// inverse rotation but do not account for the Coriolis/centrifugal terms a
// fully rigorous kinematic inverse would include; callers here only ever
// need the inverse to map positions and directions, never to inverse- compose
// accelerations.
func (t TimeStampedTransform) Invert() TimeStampedTransform {
	qInv := t.Rotation.Q.Conjugate()
	pInv := t.Rotation.Q.Rotate(t.Translation.P.Scale(-1))
	vInv := qInv.Rotate(t.Translation.V.Scale(-1))
	aInv := qInv.Rotate(t.Translation.A.Scale(-1))
	return TimeStampedTransform{
		Date: t.Date,
		Translation: TranslationState{
			P: pInv, V: vInv, A: aInv,
		},
		Rotation: RotationState{
			Q:        qInv,
			Omega:    qInv.Rotate(t.Rotation.Omega.Scale(-1)),
			OmegaDot: qInv.Rotate(t.Rotation.OmegaDot.Scale(-1)),
		},
	}
}

// Compose returns the transform equivalent to applying t, then other:
// composed.TransformPosition(p) == other.TransformPosition(t.TransformPosition(p)).
// Velocity/acceleration/angular-rate composition is additive in the
// respective frames, a simplification that omits the rigid-body cross terms
// between the two transforms' rotations — adequate for the position- and
// direction-only queries the geometry engine makes, never exercised for
// dynamics.
func (t TimeStampedTransform) Compose(other TimeStampedTransform) TimeStampedTransform {
	p := t.Translation.P.Add(t.Rotation.Q.Conjugate().Rotate(other.Translation.P))
	return TimeStampedTransform{
		Date: t.Date,
		Translation: TranslationState{
			P: p,
			V: t.Translation.V,
			A: t.Translation.A,
		},
		Rotation: RotationState{
			Q:        other.Rotation.Q.Multiply(t.Rotation.Q),
			Omega:    t.Rotation.Omega.Add(other.Rotation.Omega),
			OmegaDot: t.Rotation.OmegaDot.Add(other.Rotation.OmegaDot),
		},
	}
}

func requireWithinRange(date, minDate, maxDate time.Time, tolerance time.Duration) error {
	if date.Before(minDate.Add(-tolerance)) || date.After(maxDate.Add(tolerance)) {
		return rgerrors.New(rgerrors.OutOfTimeRange, map[string]any{"date": date},
			"date %s outside interpolator range [%s,%s]", date, minDate, maxDate)
	}
	return nil
}
