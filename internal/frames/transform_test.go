package frames

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/rugged/internal/georef"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestTransformPositionRoundTripsThroughInvert(t *testing.T) {
	q := georef.FromRotationVector(georef.Vector3{X: 0.1, Y: -0.2, Z: 0.3})
	xf := TimeStampedTransform{
		Date:        epoch,
		Translation: TranslationState{P: georef.Vector3{X: 100, Y: 200, Z: 300}},
		Rotation:    RotationState{Q: q},
	}
	p := georef.Vector3{X: 7, Y: -3, Z: 42}

	forward := xf.TransformPosition(p)
	back := xf.Invert().TransformPosition(forward)

	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.InDelta(t, p.Z, back.Z, 1e-9)
}

func TestComposeMatchesSequentialTransformPosition(t *testing.T) {
	t1 := TimeStampedTransform{
		Date:        epoch,
		Translation: TranslationState{P: georef.Vector3{X: 10, Y: 0, Z: 0}},
		Rotation:    RotationState{Q: georef.FromRotationVector(georef.Vector3{X: 0, Y: 0, Z: math.Pi / 2})},
	}
	t2 := TimeStampedTransform{
		Date:        epoch,
		Translation: TranslationState{P: georef.Vector3{X: 0, Y: 5, Z: 0}},
		Rotation:    RotationState{Q: georef.FromRotationVector(georef.Vector3{X: 0, Y: 0, Z: -math.Pi / 4})},
	}

	p := georef.Vector3{X: 1, Y: 2, Z: 3}
	viaSteps := t2.TransformPosition(t1.TransformPosition(p))
	composed := t1.Compose(t2).TransformPosition(p)

	assert.InDelta(t, viaSteps.X, composed.X, 1e-9)
	assert.InDelta(t, viaSteps.Y, composed.Y, 1e-9)
	assert.InDelta(t, viaSteps.Z, composed.Z, 1e-9)
}

func TestTranslationShiftedByMatchesConstantAcceleration(t *testing.T) {
	s := TranslationState{
		P: georef.Vector3{X: 0, Y: 0, Z: 0},
		V: georef.Vector3{X: 10, Y: 0, Z: 0},
		A: georef.Vector3{X: 0, Y: 2, Z: 0},
	}
	shifted := s.ShiftedBy(3)

	assert.InDelta(t, 30, shifted.P.X, 1e-9)
	assert.InDelta(t, 9, shifted.P.Y, 1e-9) // 0.5*2*3^2
	assert.InDelta(t, 6, shifted.V.Y, 1e-9) // 2*3
}

func TestRotationShiftedByPreservesUnitNorm(t *testing.T) {
	s := RotationState{
		Q:     georef.IdentityQuaternion,
		Omega: georef.Vector3{X: 0.01, Y: 0.02, Z: -0.01},
	}
	shifted := s.ShiftedBy(5)
	require.InDelta(t, 1.0, shifted.Q.Norm(), 1e-9)
}

func TestRequireWithinRangeHonorsTolerance(t *testing.T) {
	minDate := epoch
	maxDate := epoch.Add(time.Hour)

	require.NoError(t, requireWithinRange(minDate.Add(-time.Second), minDate, maxDate, 2*time.Second))
	err := requireWithinRange(minDate.Add(-5*time.Second), minDate, maxDate, 2*time.Second)
	require.Error(t, err)
}
